package model

type Protocol string // "tcp", "udp"

const (
	TCP Protocol = "tcp"
	UDP Protocol = "udp"
)

// ConnectionRecord is one mined connection attempt from a kernel
// firewall log line, projected down to the fields needed to build an
// accept rule for it.
type ConnectionRecord struct {
	Interface       string
	Source          string
	Destination     string
	Protocol        string // lower-cased, e.g. "tcp"
	DestinationPort int
}

// RuleSpec is the identity of one rich accept rule. Two specs describe
// the same rule iff all four fields match; add and remove for the same
// spec must render byte-identical rule text.
type RuleSpec struct {
	Source   string `validate:"required,ip4_addr"`
	CIDR     int    `validate:"min=0,max=32"`
	Protocol string `validate:"required"`
	Port     int    `validate:"required,min=1,max=65535"`
}

type Action string

const (
	ActionAdd    Action = "ADD"
	ActionRemove Action = "REMOVE"
)

// Mode is the firewalld run state, probed per invocation and never
// persisted. It decides whether rule changes go through firewall-cmd
// (runtime + permanent) or firewall-offline-cmd (single unified call).
type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// Invocation is one external command to run, kept as argv so no shell
// quoting is involved when executing it.
type Invocation struct {
	Path string
	Args []string
}

func (inv Invocation) String() string {
	out := inv.Path
	for _, arg := range inv.Args {
		out += " " + arg
	}
	return out
}

// RuleCommand is the ordered invocation sequence realizing one logical
// rule change. Online changes need two invocations (runtime plus
// permanent) because firewalld does not unify the two; offline changes
// need one.
type RuleCommand []Invocation

func (rc RuleCommand) Strings() []string {
	out := make([]string, 0, len(rc))
	for _, inv := range rc {
		out = append(out, inv.String())
	}
	return out
}
