package notify

import (
	"esxi-stats/vsphere/protocol"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultTitle          = "ESXi Stats"
	HostsListTitle        = "ESXi Hosts List"
	PowerPoliciesTitle    = "ESXi Power Policies"
	PoliciesUnsupported   = "Power Policies Not Supported"
	InterruptedReason     = "service restarted before the command finished"
	targetHostParamAdvice = "Use the 'Name' field as the target_host parameter for host power commands."
)

func Complete(cmd string) protocol.Notification {
	return commandNote(cmd, protocol.OutcomeSuccess, fmt.Sprintf("Complete - %s", cmd))
}

func Failed(cmd, msg string) protocol.Notification {
	return commandNote(cmd, protocol.OutcomeFailed, fmt.Sprintf("Failed - %s\n\n%s", cmd, msg))
}

func Timeout(cmd string, d time.Duration) protocol.Notification {
	return commandNote(cmd, protocol.OutcomeTimeout,
		fmt.Sprintf("Timeout - %s\n\nTask did not complete within %d seconds", cmd, int(d.Seconds())))
}

func commandNote(cmd string, o protocol.Outcome, msg string) protocol.Notification {
	return protocol.Notification{
		Title:   DefaultTitle,
		Message: msg,
		Kind:    protocol.NotificationCommand,
		Command: cmd,
		Outcome: o,
	}
}

type HostLine struct {
	Name        string
	Connection  string
	Power       string
	Maintenance bool
	RunningVMs  int
}

func HostsList(endpoint string, hosts []HostLine) protocol.Notification {
	var b strings.Builder
	fmt.Fprintf(&b, "ESXi Hosts in %s:\n\n", endpoint)
	lines := make([]string, 0, len(hosts))
	for _, h := range hosts {
		lines = append(lines, fmt.Sprintf("Name: %s, Connection: %s, Power: %s, Maintenance: %t, Running VMs: %d",
			h.Name, h.Connection, h.Power, h.Maintenance, h.RunningVMs))
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")
	b.WriteString(targetHostParamAdvice)
	return info(HostsListTitle, b.String())
}

type PolicyLine struct {
	ShortName   string
	Name        string
	Description string
	Current     bool
}

func PowerPolicies(host string, policies []PolicyLine, current string) protocol.Notification {
	var b strings.Builder
	fmt.Fprintf(&b, "Power Policies for %s:\n\n", host)
	blocks := make([]string, 0, len(policies))
	for _, p := range policies {
		mark := ""
		if p.Current {
			mark = " (CURRENT)"
		}
		blocks = append(blocks, fmt.Sprintf("  - %s%s\n    Full Name: %s\n    Description: %s",
			p.ShortName, mark, p.Name, p.Description))
	}
	b.WriteString(strings.Join(blocks, "\n"))
	fmt.Fprintf(&b, "\n\nCurrent Policy: %s", current)
	return info(PowerPoliciesTitle, b.String())
}

func PowerPoliciesUnsupported(host string) protocol.Notification {
	return info(PoliciesUnsupported, fmt.Sprintf("Host %s does not support power policy management", host))
}

func Interrupted(request string) protocol.Notification {
	return commandNote(request, protocol.OutcomeFailed, fmt.Sprintf("Failed - %s\n\n%s", request, InterruptedReason))
}

func info(title, msg string) protocol.Notification {
	return protocol.Notification{Title: title, Message: msg, Kind: protocol.NotificationInfo}
}
