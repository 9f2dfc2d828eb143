package vsphere

import (
	"context"
	"errors"
	"esxi-stats/app/logging"
	"esxi-stats/helper"
	"esxi-stats/helper/hostsystem"
	"esxi-stats/helper/task"
	"esxi-stats/helper/virtualmachine"
	"esxi-stats/metrics"
	"esxi-stats/vsphere/entity"
	"esxi-stats/vsphere/notify"
	"esxi-stats/vsphere/protocol"
	"fmt"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
	"strings"
	"time"
)

var (
	ErrCommandsDisabled = errors.New("commands are not allowed by the license")
	ErrTargetRequired   = errors.New("target host is required")
	errHostNotFound     = errors.New("host not found")
)

const (
	noFeedbackMessage  = "command does not provide feedback"
	noSnapshotsMessage = "No snapshots to remove"
	notFoundMessage    = "target not found"
)

// CheckAllowed fails with ErrCommandsDisabled while license gating blocks commands.
func (s *Esxi) CheckAllowed() error {
	if s.EnforceLicense && !s.Inventory().CommandsAllowed {
		return ErrCommandsDisabled
	}
	return nil
}

// VMPower runs one power command on every vm in uuids.
func (s *Esxi) VMPower(ctx context.Context, uuids []string, literal string, notifyDone bool) (protocol.CommandResults, error) {
	cmd, err := protocol.ParseVMPower(literal)
	if err != nil {
		logging.L().Error(err)
		return nil, err
	}
	return s.forEachVM(ctx, protocol.KindVMPower, string(cmd), uuids, func(ctx context.Context, op VMOperator, vm mo.VirtualMachine, label string) protocol.CommandResult {
		target := virtualmachine.UUID(vm)
		var src task.Source
		var err error
		switch cmd {
		case protocol.VMPowerOn:
			src, err = op.PowerOn(ctx)
		case protocol.VMPowerOff:
			src, err = op.PowerOff(ctx)
		case protocol.VMPowerSuspend:
			src, err = op.Suspend(ctx)
		case protocol.VMPowerReset:
			src, err = op.Reset(ctx)
		case protocol.VMPowerShutdown:
			return s.noFeedback(ctx, label, target, op.ShutdownGuest(ctx))
		case protocol.VMPowerReboot:
			return s.noFeedback(ctx, label, target, op.RebootGuest(ctx))
		}
		return s.finish(ctx, label, target, src, err, notifyDone)
	})
}

// CreateSnapshot snapshots every vm in uuids. Empty name and description get defaults.
func (s *Esxi) CreateSnapshot(ctx context.Context, uuids []string, spec protocol.SnapshotSpec, notifyDone bool) (protocol.CommandResults, error) {
	now := time.Now()
	if spec.Name == "" {
		spec.Name = "HA_Snapshot_" + now.Format("20060102_150405")
	}
	if spec.Description == "" {
		spec.Description = "Taken from esxi-stats on " + now.Format("2006-01-02 15:04:05")
	}
	return s.forEachVM(ctx, protocol.KindSnapshotCreate, "", uuids, func(ctx context.Context, op VMOperator, vm mo.VirtualMachine, label string) protocol.CommandResult {
		src, err := op.CreateSnapshot(ctx, spec)
		return s.finish(ctx, label, virtualmachine.UUID(vm), src, err, notifyDone)
	})
}

// RemoveSnapshot removes all, the first or the last snapshot of every vm in uuids.
func (s *Esxi) RemoveSnapshot(ctx context.Context, uuids []string, literal string, notifyDone bool) (protocol.CommandResults, error) {
	cmd, err := protocol.ParseSnapshotRemove(literal)
	if err != nil {
		logging.L().Error(err)
		return nil, err
	}
	return s.forEachVM(ctx, protocol.KindSnapshotRemove, string(cmd), uuids, func(ctx context.Context, op VMOperator, vm mo.VirtualMachine, label string) protocol.CommandResult {
		target := virtualmachine.UUID(vm)
		snapshots := virtualmachine.Snapshots(vm)
		if len(snapshots) == 0 {
			logging.L().Infof("%s: %s", label, noSnapshotsMessage)
			return protocol.CommandResult{Target: target, Command: label, Outcome: protocol.OutcomeNoSnapshots, Message: noSnapshotsMessage}
		}
		var src task.Source
		var err error
		switch cmd {
		case protocol.SnapshotRemoveAll:
			src, err = op.RemoveAllSnapshots(ctx)
		case protocol.SnapshotRemoveFirst:
			src, err = op.RemoveSnapshot(ctx, snapshots[0].Snapshot)
		case protocol.SnapshotRemoveLast:
			src, err = op.RemoveSnapshot(ctx, snapshots[len(snapshots)-1].Snapshot)
		}
		return s.finish(ctx, label, target, src, err, notifyDone)
	})
}

type vmFunc func(ctx context.Context, op VMOperator, vm mo.VirtualMachine, label string) protocol.CommandResult

func (s *Esxi) forEachVM(ctx context.Context, kind protocol.CommandKind, literal string, uuids []string, fn vmFunc) (protocol.CommandResults, error) {
	if err := s.CheckAllowed(); err != nil {
		return nil, err
	}
	api, err := s.Connector.Lease(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Connector.Release(api)

	vms, err := virtualmachine.Retrieve(ctx, api)
	if err != nil {
		return nil, err
	}
	results := make(protocol.CommandResults, 0, len(uuids))
	for _, uuid := range uuids {
		vm := virtualmachine.FindByUUID(vms, uuid)
		if vm == nil {
			results = append(results, s.notFound(label(kind, literal, uuid), uuid))
			continue
		}
		results = append(results, fn(ctx, s.Operators.VM(api, *vm), *vm, label(kind, literal, vm.Summary.Config.Name)))
	}
	s.count(kind, results...)
	return results, nil
}

// HostPower reboots or shuts down a host. An empty target is fine on a single host endpoint.
func (s *Esxi) HostPower(ctx context.Context, target, literal string, force, notifyDone bool) (protocol.CommandResult, error) {
	cmd, err := protocol.ParseHostPower(literal)
	if err != nil {
		logging.L().Error(err)
		return protocol.CommandResult{}, err
	}
	return s.withHost(ctx, protocol.KindHostPower, string(cmd), target, func(ctx context.Context, api *helper.API, h mo.HostSystem, label string) protocol.CommandResult {
		name := hostsystem.DisplayName(h)
		if !force {
			if !hostsystem.InMaintenanceMode(h) {
				logging.L().Warnf("host %s is not in maintenance mode, %s may fail", name, cmd)
			}
			if n, err := hostsystem.PoweredOnVMs(ctx, api, h); err != nil {
				logging.L().Warn(err)
			} else if n > 0 {
				logging.L().Warnf("host %s has %d powered on vms, %s may fail", name, n, cmd)
			}
		}
		op := s.Operators.Host(api, h)
		var src task.Source
		var err error
		switch cmd {
		case protocol.HostPowerReboot:
			src, err = op.Reboot(ctx, force)
		case protocol.HostPowerShutdown:
			src, err = op.Shutdown(ctx, force)
		}
		return s.finish(ctx, label, name, src, err, notifyDone)
	})
}

// HostPowerPolicy switches the host to the policy with the given short name.
func (s *Esxi) HostPowerPolicy(ctx context.Context, target, policy string, notifyDone bool) (protocol.CommandResult, error) {
	p, err := protocol.ParsePowerPolicy(policy)
	if err != nil {
		logging.L().Error(err)
		return protocol.CommandResult{}, err
	}
	return s.withHost(ctx, protocol.KindHostPowerPolicy, p, target, func(ctx context.Context, api *helper.API, h mo.HostSystem, label string) protocol.CommandResult {
		name := hostsystem.DisplayName(h)
		available, _ := hostsystem.PowerPolicies(h)
		if available == nil {
			logging.L().Warnf("host %s does not support power policy management", name)
			return s.failed(ctx, label, name, fmt.Sprintf("Host %s does not support power policy management", name))
		}
		key, ok := policyKey(available, p)
		if !ok {
			names := strings.Join(policyNames(available), ", ")
			logging.L().Warnf("host %s has no power policy %q, available: %s", name, p, names)
			return s.failed(ctx, label, name, fmt.Sprintf("Invalid power policy %s. Available policies: %s", p, names))
		}
		if err := s.Operators.Host(api, h).SetPowerPolicy(ctx, key); err != nil {
			return s.failed(ctx, label, name, err.Error())
		}
		return s.noFeedback(ctx, label, name, nil)
	})
}

type hostFunc func(ctx context.Context, api *helper.API, h mo.HostSystem, label string) protocol.CommandResult

func (s *Esxi) withHost(ctx context.Context, kind protocol.CommandKind, literal, target string, fn hostFunc) (protocol.CommandResult, error) {
	if err := s.CheckAllowed(); err != nil {
		return protocol.CommandResult{}, err
	}
	api, err := s.Connector.Lease(ctx)
	if err != nil {
		return protocol.CommandResult{}, err
	}
	defer s.Connector.Release(api)

	hosts, err := hostsystem.Retrieve(ctx, api)
	if err != nil {
		return protocol.CommandResult{}, err
	}
	h, err := resolveHost(hosts, target)
	var r protocol.CommandResult
	switch {
	case errors.Is(err, errHostNotFound):
		r = s.notFound(label(kind, literal, target), target)
	case err != nil:
		logging.L().Error(err)
		return protocol.CommandResult{}, err
	default:
		r = fn(ctx, api, h, label(kind, literal, hostsystem.DisplayName(h)))
	}
	s.count(kind, r)
	return r, nil
}

func resolveHost(hosts []mo.HostSystem, target string) (mo.HostSystem, error) {
	switch {
	case len(hosts) == 0:
		return mo.HostSystem{}, fmt.Errorf("%w: no hosts", errHostNotFound)
	case target == "" && len(hosts) == 1:
		return hosts[0], nil
	case target == "":
		return mo.HostSystem{}, fmt.Errorf("%w, available hosts: %s", ErrTargetRequired, strings.Join(hostsystem.Names(hosts), ", "))
	}
	for _, h := range hosts {
		if hostsystem.Matches(h, target) {
			return h, nil
		}
	}
	return mo.HostSystem{}, fmt.Errorf("%w: %s", errHostNotFound, target)
}

// ListHosts sends an informational notification describing every host.
func (s *Esxi) ListHosts(ctx context.Context) error {
	if err := s.CheckAllowed(); err != nil {
		return err
	}
	api, err := s.Connector.Lease(ctx)
	if err != nil {
		return err
	}
	defer s.Connector.Release(api)

	hosts, err := hostsystem.Retrieve(ctx, api)
	if err != nil {
		return err
	}
	lines := make([]notify.HostLine, 0, len(hosts))
	for _, h := range hosts {
		running, err := hostsystem.PoweredOnVMs(ctx, api, h)
		if err != nil {
			logging.L().Warn(err)
		}
		lines = append(lines, notify.HostLine{
			Name:        hostsystem.DisplayName(h),
			Connection:  string(hostsystem.ConnectionState(h)),
			Power:       string(hostsystem.PowerState(h)),
			Maintenance: hostsystem.InMaintenanceMode(h),
			RunningVMs:  running,
		})
	}
	s.notify(ctx, notify.HostsList(s.Host, lines))
	s.count(protocol.KindListHosts, protocol.CommandResult{Outcome: protocol.OutcomeSuccess})
	return nil
}

// ListPowerPolicies sends an informational notification with the policies of one host.
func (s *Esxi) ListPowerPolicies(ctx context.Context, target string) error {
	if err := s.CheckAllowed(); err != nil {
		return err
	}
	api, err := s.Connector.Lease(ctx)
	if err != nil {
		return err
	}
	defer s.Connector.Release(api)

	hosts, err := hostsystem.Retrieve(ctx, api)
	if err != nil {
		return err
	}
	h, err := resolveHost(hosts, target)
	if errors.Is(err, errHostNotFound) {
		s.count(protocol.KindListPowerPolicies, s.notFound(label(protocol.KindListPowerPolicies, "", target), target))
		return nil
	}
	if err != nil {
		logging.L().Error(err)
		return err
	}

	name := hostsystem.DisplayName(h)
	available, current := hostsystem.PowerPolicies(h)
	if available == nil {
		logging.L().Warnf("host %s does not support power policy management", name)
		s.notify(ctx, notify.PowerPoliciesUnsupported(name))
		return nil
	}
	s.notify(ctx, notify.PowerPolicies(name, policyLines(available, current), currentPolicy(current)))
	s.count(protocol.KindListPowerPolicies, protocol.CommandResult{Outcome: protocol.OutcomeSuccess})
	return nil
}

func policyLines(available []types.HostPowerPolicy, current *types.HostPowerPolicy) []notify.PolicyLine {
	lines := make([]notify.PolicyLine, 0, len(available))
	for _, p := range available {
		lines = append(lines, notify.PolicyLine{
			ShortName:   p.ShortName,
			Name:        p.Name,
			Description: p.Description,
			Current:     current != nil && current.Key == p.Key,
		})
	}
	return lines
}

// policyKey finds the key of the policy with the given short name, ignoring case.
func policyKey(available []types.HostPowerPolicy, short string) (int32, bool) {
	for _, a := range available {
		if strings.EqualFold(a.ShortName, short) {
			return a.Key, true
		}
	}
	return 0, false
}

func policyNames(available []types.HostPowerPolicy) []string {
	names := make([]string, 0, len(available))
	for _, a := range available {
		names = append(names, a.ShortName)
	}
	return names
}

func currentPolicy(current *types.HostPowerPolicy) string {
	if current == nil || current.ShortName == "" {
		return "unknown"
	}
	return current.ShortName
}

// Execute runs a command produced by an entity action.
func (s *Esxi) Execute(ctx context.Context, c entity.Command) (protocol.CommandResults, error) {
	one := func(r protocol.CommandResult, err error) (protocol.CommandResults, error) {
		if err != nil {
			return nil, err
		}
		return protocol.CommandResults{r}, nil
	}
	switch c.Kind {
	case protocol.KindVMPower:
		return s.VMPower(ctx, []string{c.Target}, c.Literal, c.Notify)
	case protocol.KindSnapshotCreate:
		var spec protocol.SnapshotSpec
		if c.Snapshot != nil {
			spec = *c.Snapshot
		}
		return s.CreateSnapshot(ctx, []string{c.Target}, spec, c.Notify)
	case protocol.KindSnapshotRemove:
		return s.RemoveSnapshot(ctx, []string{c.Target}, c.Literal, c.Notify)
	case protocol.KindHostPower:
		return one(s.HostPower(ctx, c.Target, c.Literal, c.Force, c.Notify))
	case protocol.KindHostPowerPolicy:
		return one(s.HostPowerPolicy(ctx, c.Target, c.Literal, c.Notify))
	case protocol.KindListHosts:
		return nil, s.ListHosts(ctx)
	case protocol.KindListPowerPolicies:
		return nil, s.ListPowerPolicies(ctx, c.Target)
	}
	err := fmt.Errorf("%w: %s", protocol.ErrUnsupportedCommand, c.Kind)
	logging.L().Error(err)
	return nil, err
}

// finish waits for the task started by a command and reports its outcome.
func (s *Esxi) finish(ctx context.Context, label, target string, src task.Source, err error, notifyDone bool) protocol.CommandResult {
	if err != nil {
		return s.failed(ctx, label, target, err.Error())
	}
	res, err := s.Waiter.Wait(ctx, src)
	switch {
	case errors.Is(err, task.ErrTimeout):
		timeout := task.NewWaiter(s.Waiter.Timeout, s.Waiter.Interval).Timeout
		logging.L().Warnf("%s timed out after %s", label, timeout)
		s.notify(ctx, notify.Timeout(label, timeout))
		return protocol.CommandResult{Target: target, Command: label, Outcome: protocol.OutcomeTimeout, Message: err.Error()}
	case err != nil:
		return s.failed(ctx, label, target, err.Error())
	case res.State == task.StateError:
		return s.failed(ctx, label, target, res.Message)
	}
	logging.L().Infof("%s completed", label)
	if notifyDone {
		s.notify(ctx, notify.Complete(label))
	}
	return protocol.CommandResult{Target: target, Command: label, Outcome: protocol.OutcomeSuccess}
}

func (s *Esxi) failed(ctx context.Context, label, target, msg string) protocol.CommandResult {
	logging.L().Errorf("%s failed: %s", label, msg)
	s.notify(ctx, notify.Failed(label, msg))
	return protocol.CommandResult{Target: target, Command: label, Outcome: protocol.OutcomeFailed, Message: msg}
}

// noFeedback reports a call that returns no task. A call error is still a failure.
func (s *Esxi) noFeedback(ctx context.Context, label, target string, err error) protocol.CommandResult {
	if err != nil {
		return s.failed(ctx, label, target, err.Error())
	}
	logging.L().Infof("%s sent, %s", label, noFeedbackMessage)
	return protocol.CommandResult{Target: target, Command: label, Outcome: protocol.OutcomeNoFeedback, Message: noFeedbackMessage}
}

func (s *Esxi) notFound(label, target string) protocol.CommandResult {
	logging.L().Infof("%s: %s", label, notFoundMessage)
	return protocol.CommandResult{Target: target, Command: label, Outcome: protocol.OutcomeNotFound, Message: notFoundMessage}
}

func (s *Esxi) count(kind protocol.CommandKind, results ...protocol.CommandResult) {
	for _, r := range results {
		metrics.IncreaseCommands(s.ID, string(kind), string(r.Outcome))
	}
}

func label(kind protocol.CommandKind, literal, target string) string {
	parts := []string{string(kind)}
	for _, p := range []string{literal, target} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
