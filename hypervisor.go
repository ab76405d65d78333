package hyperlab

// MachineState is a virtual machine power state as reported by the
// host.
type MachineState string

// Known machine states. Hyper-V reports more states than these; any
// state other than "Running" or "Off" is mapped to MachineStateUnknown.
const (
	MachineStateRunning = MachineState("Running")
	MachineStateOff     = MachineState("Off")
	MachineStateUnknown = MachineState("Unknown")
	MachineStateAbsent  = MachineState("")
)

// SecureBootTemplateWindows is the platform-vendor secure boot template
// applied to generation 2 machines.
const SecureBootTemplateWindows = "MicrosoftWindows"

// IntegrationServices lists the host-guest integration services enabled
// on every machine, by their Hyper-V service names.
var IntegrationServices = []string{
	"Guest Service Interface",
	"Heartbeat",
	"Key-Value Pair Exchange",
	"Shutdown",
	"Time Synchronization",
	"VSS",
}

// Hypervisor is the host virtualization management capability the
// provisioner runs against. Driver implements it on top of the Hyper-V
// PowerShell module; tests implement it with a fake.
//
// Lookup methods report existence; they return an error only when the
// lookup itself could not be performed.
type Hypervisor interface {
	// CheckAvailable reports whether the virtualization management
	// capability is present on this host.
	CheckAvailable() error

	GetSwitch(switchname string) (bool, error)
	CreateSwitch(switchname string) error

	GetMachine(machinename string) (bool, error)
	CreateDisk(diskpath string, sizebytes int64) error
	CreateMachine(machinename string, machinepath string, diskpath string, switchname string, generation int, startupbytes int64) error

	SetProcessorCount(machinename string, count int) error
	SetDynamicMemory(machinename string, minbytes int64, maxbytes int64) error
	SetSecureBoot(machinename string, template string) error

	// AttachInstallerImage adds a DVD drive backed by the image and
	// makes it the first boot device.
	AttachInstallerImage(machinename string, imagepath string) error

	EnableIntegrationService(machinename string, servicename string) error

	// MachineState returns the current power state of the named
	// machine, or MachineStateAbsent if it does not exist.
	MachineState(machinename string) (MachineState, error)
}
