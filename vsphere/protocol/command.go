package protocol

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnsupportedCommand = errors.New("unsupported command")

type CommandKind string

const (
	KindVMPower           CommandKind = "vm_power"
	KindSnapshotCreate    CommandKind = "vm_snapshot_create"
	KindSnapshotRemove    CommandKind = "vm_snapshot_remove"
	KindHostPower         CommandKind = "host_power"
	KindHostPowerPolicy   CommandKind = "host_power_policy"
	KindListHosts         CommandKind = "list_hosts"
	KindListPowerPolicies CommandKind = "list_power_policies"
)

type VMPowerCommand string

const (
	VMPowerOn       VMPowerCommand = "on"
	VMPowerOff      VMPowerCommand = "off"
	VMPowerReboot   VMPowerCommand = "reboot"
	VMPowerReset    VMPowerCommand = "reset"
	VMPowerShutdown VMPowerCommand = "shutdown"
	VMPowerSuspend  VMPowerCommand = "suspend"
)

var VMPowerCommands = []VMPowerCommand{VMPowerOn, VMPowerOff, VMPowerReboot, VMPowerReset, VMPowerShutdown, VMPowerSuspend}

func ParseVMPower(s string) (VMPowerCommand, error) {
	for _, c := range VMPowerCommands {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: vm power %q", ErrUnsupportedCommand, s)
}

type SnapshotRemoveCommand string

const (
	SnapshotRemoveAll   SnapshotRemoveCommand = "all"
	SnapshotRemoveFirst SnapshotRemoveCommand = "first"
	SnapshotRemoveLast  SnapshotRemoveCommand = "last"
)

var SnapshotRemoveCommands = []SnapshotRemoveCommand{SnapshotRemoveAll, SnapshotRemoveFirst, SnapshotRemoveLast}

func ParseSnapshotRemove(s string) (SnapshotRemoveCommand, error) {
	for _, c := range SnapshotRemoveCommands {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: snapshot remove %q", ErrUnsupportedCommand, s)
}

type HostPowerCommand string

const (
	HostPowerReboot   HostPowerCommand = "reboot"
	HostPowerShutdown HostPowerCommand = "shutdown"
)

var HostPowerCommands = []HostPowerCommand{HostPowerReboot, HostPowerShutdown}

func ParseHostPower(s string) (HostPowerCommand, error) {
	for _, c := range HostPowerCommands {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: host power %q", ErrUnsupportedCommand, s)
}

// ParsePowerPolicy only checks the shape; availability is a per-host property.
func ParsePowerPolicy(s string) (string, error) {
	p := strings.TrimSpace(s)
	if p == "" || strings.ContainsAny(p, " \t\n") {
		return "", fmt.Errorf("%w: power policy %q", ErrUnsupportedCommand, s)
	}
	return p, nil
}

type SnapshotSpec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Memory      bool   `json:"memory"`
	Quiesce     bool   `json:"quiesce"`
}

type Outcome string

const (
	OutcomeSuccess     Outcome = "success"
	OutcomeFailed      Outcome = "failed"
	OutcomeTimeout     Outcome = "timeout"
	OutcomeNotFound    Outcome = "not_found"
	OutcomeNoFeedback  Outcome = "no_feedback"
	OutcomeNoSnapshots Outcome = "no_snapshots"
)

type CommandResult struct {
	Target  string  `json:"target"`
	Command string  `json:"command"`
	Outcome Outcome `json:"outcome"`
	Message string  `json:"message,omitempty"`
}

type CommandResults []CommandResult

func (rs CommandResults) With(o Outcome) []string {
	var targets []string
	for _, r := range rs {
		if r.Outcome == o {
			targets = append(targets, r.Target)
		}
	}
	return targets
}
