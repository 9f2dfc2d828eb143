package entity

import (
	"errors"
	"esxi-stats/app/logging"
	"esxi-stats/vsphere/protocol"
	"fmt"
	"strings"
)

type Action string

const (
	Press   Action = "press"
	TurnOn  Action = "turn_on"
	TurnOff Action = "turn_off"
	Choose  Action = "select"
)

var ErrUnavailable = errors.New("entity is not available")

// Command is what an entity action asks the dispatcher to run.
type Command struct {
	Kind     protocol.CommandKind
	Literal  string
	Target   string
	Force    bool
	Notify   bool
	Snapshot *protocol.SnapshotSpec
}

func (c Command) String() string {
	if c.Literal == "" {
		return fmt.Sprintf("%s %s", c.Kind, c.Target)
	}
	return fmt.Sprintf("%s %s %s", c.Kind, c.Literal, c.Target)
}

// Resolve maps an action on e to a command. option is only read by selects.
func Resolve(e Entity, a Action, option string) (Command, error) {
	unsupported := fmt.Errorf("%w: %s on %s", protocol.ErrUnsupportedCommand, a, e.UniqueID)
	switch e.Role {
	case RoleVMPower:
		switch a {
		case TurnOn:
			return Command{Kind: protocol.KindVMPower, Literal: string(protocol.VMPowerOn), Target: e.Target}, nil
		case TurnOff:
			lit := protocol.VMPowerOff
			if toolsRunning(e) {
				lit = protocol.VMPowerShutdown
			}
			logging.L().Infof("vm %s: power %s (tools: %s)", e.Key, lit, tools(e))
			return Command{Kind: protocol.KindVMPower, Literal: string(lit), Target: e.Target}, nil
		}
	case RoleHostPower:
		switch a {
		case TurnOn:
			logging.L().Warnf("host %s cannot be powered on remotely", e.Key)
			return Command{}, unsupported
		case TurnOff:
			return Command{Kind: protocol.KindHostPower, Literal: string(protocol.HostPowerShutdown), Target: e.Target, Notify: true}, nil
		}
	case RoleHostReboot:
		if a == Press {
			if !e.Available {
				return Command{}, fmt.Errorf("%w: host %s is not powered on", ErrUnavailable, e.Key)
			}
			return Command{Kind: protocol.KindHostPower, Literal: string(protocol.HostPowerReboot), Target: e.Target, Notify: true}, nil
		}
	case RoleVMReboot:
		if a == Press {
			if !e.Available {
				return Command{}, fmt.Errorf("%w: vm %s is not running", ErrUnavailable, e.Key)
			}
			lit := protocol.VMPowerReset
			if toolsRunning(e) {
				lit = protocol.VMPowerReboot
			}
			logging.L().Infof("vm %s: %s (tools: %s)", e.Key, lit, tools(e))
			return Command{Kind: protocol.KindVMPower, Literal: string(lit), Target: e.Target, Notify: true}, nil
		}
	case RoleSnapshotCreate:
		if a == Press {
			if !e.Available {
				return Command{}, fmt.Errorf("%w: vm %s has no state", ErrUnavailable, e.Key)
			}
			return Command{Kind: protocol.KindSnapshotCreate, Target: e.Target, Notify: true,
				Snapshot: &protocol.SnapshotSpec{Memory: false, Quiesce: true}}, nil
		}
	case RoleSnapshotAll, RoleSnapshotFirst, RoleSnapshotLast:
		if a == Press {
			if !e.Available {
				return Command{}, fmt.Errorf("%w: vm %s has no snapshots", ErrUnavailable, e.Key)
			}
			lit := strings.TrimPrefix(e.Role, "vm_snapshot_remove_")
			return Command{Kind: protocol.KindSnapshotRemove, Literal: lit, Target: e.Target, Notify: true}, nil
		}
	case RolePowerPolicy:
		if a == Choose {
			if !e.Available {
				return Command{}, fmt.Errorf("%w: host %s offers no power policies", ErrUnavailable, e.Key)
			}
			found := false
			for _, o := range e.Options {
				if o == option {
					found = true
				}
			}
			if !found {
				return Command{}, fmt.Errorf("%w: policy %q is not one of %s", protocol.ErrUnsupportedCommand, option, strings.Join(e.Options, ", "))
			}
			return Command{Kind: protocol.KindHostPowerPolicy, Literal: option, Target: e.Target, Notify: true}, nil
		}
	}
	return Command{}, unsupported
}

func tools(e Entity) string {
	s, _ := e.Attributes["tools_status"].(string)
	return strings.ToLower(s)
}

func toolsRunning(e Entity) bool {
	t := tools(e)
	return t == "toolsok" || t == "toolsold"
}
