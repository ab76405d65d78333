// Package hyperlab provisions a small Hyper-V lab: one internal virtual
// switch and a fixed set of virtual machines, each with a dynamically
// expanding VHDX disk, dynamic memory, and the standard integration
// services enabled.
//
// It uses the Hyper-V PowerShell module to talk to Hyper-V. It invokes
// Cmdlets from the module via an interface script. Every operation is
// create-if-absent: objects that already exist on the host are logged
// and left untouched.
//
// The provisioning logic is written against the Hypervisor interface,
// of which Driver is the PowerShell-backed implementation. This keeps
// the Provisioner testable without a Hyper-V host.
package hyperlab
