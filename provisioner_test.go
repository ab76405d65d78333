package hyperlab_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hyperlab "github.com/vmlab/hyperv-lab"
)

// fakeHost implements hyperlab.Hypervisor in memory, recording every
// mutating call.
type fakeHost struct {
	unavailable error

	switches map[string]bool
	machines map[string]*fakeMachine
	disks    map[string]int64

	failCreateMachine map[string]error

	createSwitchCalls  int
	createDiskCalls    int
	createMachineCalls int
}

type fakeMachine struct {
	machinepath  string
	diskpath     string
	switchname   string
	generation   int
	startupbytes int64

	processors         int
	memoryMin          int64
	memoryMax          int64
	dynamicMemory      bool
	secureBootTemplate string
	attachedImage      string
	services           []string

	state hyperlab.MachineState
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		switches:          map[string]bool{},
		machines:          map[string]*fakeMachine{},
		disks:             map[string]int64{},
		failCreateMachine: map[string]error{},
	}
}

func (f *fakeHost) CheckAvailable() error {
	return f.unavailable
}

func (f *fakeHost) GetSwitch(switchname string) (bool, error) {
	return f.switches[switchname], nil
}

func (f *fakeHost) CreateSwitch(switchname string) error {
	f.createSwitchCalls++
	f.switches[switchname] = true
	return nil
}

func (f *fakeHost) GetMachine(machinename string) (bool, error) {
	_, ok := f.machines[machinename]
	return ok, nil
}

func (f *fakeHost) CreateDisk(diskpath string, sizebytes int64) error {
	f.createDiskCalls++
	f.disks[diskpath] = sizebytes
	return nil
}

func (f *fakeHost) CreateMachine(machinename string, machinepath string, diskpath string, switchname string, generation int, startupbytes int64) error {
	if err := f.failCreateMachine[machinename]; err != nil {
		return err
	}

	f.createMachineCalls++
	f.machines[machinename] = &fakeMachine{
		machinepath:  machinepath,
		diskpath:     diskpath,
		switchname:   switchname,
		generation:   generation,
		startupbytes: startupbytes,
		state:        hyperlab.MachineStateOff,
	}
	return nil
}

func (f *fakeHost) machine(machinename string) (*fakeMachine, error) {
	machine, ok := f.machines[machinename]
	if !ok {
		return nil, fmt.Errorf("machine '%s' not found", machinename)
	}
	return machine, nil
}

func (f *fakeHost) SetProcessorCount(machinename string, count int) error {
	machine, err := f.machine(machinename)
	if err != nil {
		return err
	}
	machine.processors = count
	return nil
}

func (f *fakeHost) SetDynamicMemory(machinename string, minbytes int64, maxbytes int64) error {
	machine, err := f.machine(machinename)
	if err != nil {
		return err
	}
	machine.dynamicMemory = true
	machine.memoryMin = minbytes
	machine.memoryMax = maxbytes
	return nil
}

func (f *fakeHost) SetSecureBoot(machinename string, template string) error {
	machine, err := f.machine(machinename)
	if err != nil {
		return err
	}
	machine.secureBootTemplate = template
	return nil
}

func (f *fakeHost) AttachInstallerImage(machinename string, imagepath string) error {
	machine, err := f.machine(machinename)
	if err != nil {
		return err
	}
	machine.attachedImage = imagepath
	return nil
}

func (f *fakeHost) EnableIntegrationService(machinename string, servicename string) error {
	machine, err := f.machine(machinename)
	if err != nil {
		return err
	}
	machine.services = append(machine.services, servicename)
	return nil
}

func (f *fakeHost) MachineState(machinename string) (hyperlab.MachineState, error) {
	machine, ok := f.machines[machinename]
	if !ok {
		return hyperlab.MachineStateAbsent, nil
	}
	return machine.state, nil
}

// testConfig returns a LabConfig rooted in a temp directory. When
// withimage is true, an installer image file is created at the
// configured path.
func testConfig(t *testing.T, withimage bool) *hyperlab.LabConfig {
	t.Helper()

	root := t.TempDir()
	config := hyperlab.DefaultConfig()
	config.MachinePath = filepath.Join(root, "machines")
	config.DiskPath = filepath.Join(root, "disks")
	config.InstallerImage = filepath.Join(root, "iso", "install-media.iso")

	if withimage {
		err := os.MkdirAll(filepath.Dir(config.InstallerImage), 0755)
		require.NoError(t, err)
		err = os.WriteFile(config.InstallerImage, []byte("iso"), 0644)
		require.NoError(t, err)
	}

	return config
}

func TestRunCreatesSwitchAndMachines(t *testing.T) {
	host := newFakeHost()
	config := testConfig(t, true)

	results, err := hyperlab.NewProvisioner(host, config).Run()
	require.NoError(t, err)

	require.Len(t, results, 3)
	for i, machinename := range config.MachineNames {
		assert.Equal(t, machinename, results[i].Name)
		assert.Equal(t, hyperlab.OutcomeCreated, results[i].Outcome)
		assert.Equal(t, hyperlab.MachineStateOff, results[i].State)
		assert.NoError(t, results[i].Err)
	}

	assert.True(t, host.switches[config.SwitchName])
	assert.Equal(t, 1, host.createSwitchCalls)
	assert.Equal(t, 3, host.createDiskCalls)
	assert.Equal(t, 3, host.createMachineCalls)

	for _, machinename := range config.MachineNames {
		machine := host.machines[machinename]
		require.NotNil(t, machine)

		assert.Equal(t, config.MachinePath, machine.machinepath)
		assert.Equal(t, config.DiskFilePath(machinename), machine.diskpath)
		assert.Equal(t, config.SwitchName, machine.switchname)
		assert.Equal(t, 2, machine.generation)
		assert.Equal(t, config.MemoryBytes, machine.startupbytes)

		assert.Equal(t, config.DiskSizeBytes, host.disks[machine.diskpath])
	}

	if _, err := os.Stat(config.MachinePath); err != nil {
		t.Errorf("machine directory not created: %v", err)
	}
	if _, err := os.Stat(config.DiskPath); err != nil {
		t.Errorf("disk directory not created: %v", err)
	}
}

func TestCreatedMachineConfiguration(t *testing.T) {
	host := newFakeHost()
	config := testConfig(t, true)

	_, err := hyperlab.NewProvisioner(host, config).Run()
	require.NoError(t, err)

	for _, machinename := range config.MachineNames {
		machine := host.machines[machinename]
		require.NotNil(t, machine)

		assert.Equal(t, config.ProcessorCount, machine.processors)
		assert.True(t, machine.dynamicMemory)
		assert.Equal(t, int64(2*1024*1024*1024), machine.memoryMin)
		assert.Equal(t, config.MemoryBytes, machine.memoryMax)
		assert.Equal(t, hyperlab.SecureBootTemplateWindows, machine.secureBootTemplate)
		assert.Equal(t, config.InstallerImage, machine.attachedImage)
		assert.ElementsMatch(t, hyperlab.IntegrationServices, machine.services)
	}
}

func TestSecondRunCreatesNothing(t *testing.T) {
	host := newFakeHost()
	config := testConfig(t, true)
	provisioner := hyperlab.NewProvisioner(host, config)

	_, err := provisioner.Run()
	require.NoError(t, err)

	results, err := provisioner.Run()
	require.NoError(t, err)

	require.Len(t, results, 3)
	for _, result := range results {
		assert.Equal(t, hyperlab.OutcomeSkipped, result.Outcome)
		assert.Equal(t, hyperlab.MachineStateOff, result.State)
	}

	assert.Equal(t, 1, host.createSwitchCalls)
	assert.Equal(t, 3, host.createDiskCalls)
	assert.Equal(t, 3, host.createMachineCalls)
}

func TestExistingSwitchIsNotRecreated(t *testing.T) {
	host := newFakeHost()
	config := testConfig(t, true)
	host.switches[config.SwitchName] = true

	_, err := hyperlab.NewProvisioner(host, config).Run()
	require.NoError(t, err)

	assert.Equal(t, 0, host.createSwitchCalls)
}

func TestMissingInstallerImage(t *testing.T) {
	host := newFakeHost()
	config := testConfig(t, false)

	results, err := hyperlab.NewProvisioner(host, config).Run()
	require.NoError(t, err)

	for _, result := range results {
		assert.Equal(t, hyperlab.OutcomeCreated, result.Outcome)
	}

	for _, machinename := range config.MachineNames {
		machine := host.machines[machinename]
		require.NotNil(t, machine)
		assert.Empty(t, machine.attachedImage, "no DVD drive should be attached without media")
		assert.Equal(t, hyperlab.SecureBootTemplateWindows, machine.secureBootTemplate)
	}
}

func TestExistingMachineIsSkippedUntouched(t *testing.T) {
	host := newFakeHost()
	config := testConfig(t, true)

	existing := &fakeMachine{processors: 8, state: hyperlab.MachineStateRunning}
	host.machines["LabVM2"] = existing

	results, err := hyperlab.NewProvisioner(host, config).Run()
	require.NoError(t, err)

	assert.Equal(t, 2, host.createDiskCalls)
	assert.Equal(t, 2, host.createMachineCalls)

	require.Len(t, results, 3)
	assert.Equal(t, hyperlab.OutcomeCreated, results[0].Outcome)
	assert.Equal(t, hyperlab.OutcomeSkipped, results[1].Outcome)
	assert.Equal(t, hyperlab.MachineStateRunning, results[1].State)
	assert.Equal(t, hyperlab.OutcomeCreated, results[2].Outcome)

	assert.Equal(t, 8, existing.processors, "pre-existing machine must not be reconfigured")
	assert.False(t, existing.dynamicMemory)
}

func TestUnavailableHostStopsBeforeMutation(t *testing.T) {
	host := newFakeHost()
	host.unavailable = errors.New("Hyper-V PowerShell module not found")
	config := testConfig(t, true)

	results, err := hyperlab.NewProvisioner(host, config).Run()
	require.Error(t, err)
	assert.Nil(t, results)

	assert.Empty(t, host.switches)
	assert.Empty(t, host.machines)
	assert.Empty(t, host.disks)

	if _, err := os.Stat(config.MachinePath); !os.IsNotExist(err) {
		t.Errorf("machine directory must not be created: %v", err)
	}
	if _, err := os.Stat(config.DiskPath); !os.IsNotExist(err) {
		t.Errorf("disk directory must not be created: %v", err)
	}
}

func TestOneFailureDoesNotStopTheRun(t *testing.T) {
	host := newFakeHost()
	config := testConfig(t, true)

	inducederr := errors.New("not enough memory on host")
	host.failCreateMachine["LabVM2"] = inducederr

	results, err := hyperlab.NewProvisioner(host, config).Run()
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, hyperlab.OutcomeCreated, results[0].Outcome)
	assert.Equal(t, hyperlab.OutcomeFailed, results[1].Outcome)
	assert.ErrorIs(t, results[1].Err, inducederr)
	assert.Equal(t, hyperlab.MachineStateAbsent, results[1].State)
	assert.Equal(t, hyperlab.OutcomeCreated, results[2].Outcome)

	assert.True(t, hyperlab.AnyFailed(results))
}

func TestGeneration1SkipsFirmware(t *testing.T) {
	host := newFakeHost()
	config := testConfig(t, true)
	config.Generation = 1

	_, err := hyperlab.NewProvisioner(host, config).Run()
	require.NoError(t, err)

	for _, machinename := range config.MachineNames {
		machine := host.machines[machinename]
		require.NotNil(t, machine)
		assert.Empty(t, machine.secureBootTemplate)
		assert.Empty(t, machine.attachedImage)
		assert.ElementsMatch(t, hyperlab.IntegrationServices, machine.services)
	}
}
