// Package ipc defines the wire protocol spoken over the launcher's Unix
// socket and the client used to speak it. One JSON-encoded command per
// connection, answered by exactly one JSON-encoded response.
package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/state"
)

// Buffer bounds shared by both ends of the socket. A request that fills
// MaxRequestBytes is treated as truncated and rejected unprocessed.
const (
	MaxRequestBytes  = 4096
	MaxResponseBytes = 8192
)

// CommandKind names a command variant. The string value doubles as the
// on-wire tag and must not change.
type CommandKind string

const (
	CmdToggleOverlay   CommandKind = "ToggleOverlay"
	CmdGetState        CommandKind = "GetState"
	CmdSetVolume       CommandKind = "SetVolume"
	CmdToggleMute      CommandKind = "ToggleMute"
	CmdToggleWifi      CommandKind = "ToggleWifi"
	CmdToggleBluetooth CommandKind = "ToggleBluetooth"
	CmdToggleVpn       CommandKind = "ToggleVpn"
	CmdLogout          CommandKind = "Logout"
	CmdReboot          CommandKind = "Reboot"
	CmdShutdown        CommandKind = "Shutdown"
	CmdLaunchRofi      CommandKind = "LaunchRofi"
	CmdLaunchURL       CommandKind = "LaunchUrl"
)

// Command is one request from a front-end or CLI invocation. Volume is
// meaningful only for CmdSetVolume, URL only for CmdLaunchURL.
type Command struct {
	Kind   CommandKind
	Volume int
	URL    string
}

// unitCommands are the variants that carry no payload and encode as a bare
// JSON string.
var unitCommands = map[CommandKind]bool{
	CmdToggleOverlay:   true,
	CmdGetState:        true,
	CmdToggleMute:      true,
	CmdToggleWifi:      true,
	CmdToggleBluetooth: true,
	CmdToggleVpn:       true,
	CmdLogout:          true,
	CmdReboot:          true,
	CmdShutdown:        true,
	CmdLaunchRofi:      true,
}

// MarshalJSON encodes the externally tagged union form: bare strings for
// unit commands, single-key objects for payload commands.
func (c Command) MarshalJSON() ([]byte, error) {
	switch {
	case unitCommands[c.Kind]:
		return json.Marshal(string(c.Kind))
	case c.Kind == CmdSetVolume:
		return json.Marshal(map[string]int{string(CmdSetVolume): c.Volume})
	case c.Kind == CmdLaunchURL:
		return json.Marshal(map[string]string{string(CmdLaunchURL): c.URL})
	default:
		return nil, fmt.Errorf("unknown command kind %q", c.Kind)
	}
}

// UnmarshalJSON accepts either encoding and rejects anything outside the
// command set with a diagnostic suitable for an Error response.
func (c *Command) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err == nil {
		kind := CommandKind(tag)
		if !unitCommands[kind] {
			return fmt.Errorf("unknown command %q", tag)
		}
		*c = Command{Kind: kind}
		return nil
	}

	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("invalid command encoding: %w", err)
	}
	if len(tagged) != 1 {
		return fmt.Errorf("expected exactly one command, got %d keys", len(tagged))
	}

	for tag, payload := range tagged {
		switch CommandKind(tag) {
		case CmdSetVolume:
			var volume int
			if err := json.Unmarshal(payload, &volume); err != nil {
				return fmt.Errorf("invalid SetVolume payload: %w", err)
			}
			*c = Command{Kind: CmdSetVolume, Volume: volume}
			return nil
		case CmdLaunchURL:
			var url string
			if err := json.Unmarshal(payload, &url); err != nil {
				return fmt.Errorf("invalid LaunchUrl payload: %w", err)
			}
			*c = Command{Kind: CmdLaunchURL, URL: url}
			return nil
		default:
			return fmt.Errorf("unknown command %q", tag)
		}
	}
	return fmt.Errorf("empty command")
}

// ResponseKind names a response variant.
type ResponseKind string

const (
	RespSuccess      ResponseKind = "Success"
	RespState        ResponseKind = "State"
	RespError        ResponseKind = "Error"
	RespToggleResult ResponseKind = "ToggleResult"
)

// Response is the single reply to a command. State is set only for
// RespState, Toggled for RespToggleResult, Message for RespError.
type Response struct {
	Kind    ResponseKind
	State   *state.Aggregate
	Toggled bool
	Message string
}

// Success acknowledges a fire-and-forget command.
func Success() Response {
	return Response{Kind: RespSuccess}
}

// StateOf wraps a snapshot for the GetState reply.
func StateOf(agg state.Aggregate) Response {
	return Response{Kind: RespState, State: &agg}
}

// ToggleResult reports the post-toggle state of a boolean switch.
func ToggleResult(enabled bool) Response {
	return Response{Kind: RespToggleResult, Toggled: enabled}
}

// Errorf builds an Error response from a format string.
func Errorf(format string, args ...any) Response {
	return Response{Kind: RespError, Message: fmt.Sprintf(format, args...)}
}

// ErrorFrom builds an Error response carrying err's message text.
func ErrorFrom(err error) Response {
	return Response{Kind: RespError, Message: err.Error()}
}

// MarshalJSON encodes the externally tagged form: "Success" as a bare
// string, the payload variants as single-key objects.
func (r Response) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case RespSuccess:
		return json.Marshal(string(RespSuccess))
	case RespState:
		if r.State == nil {
			return nil, fmt.Errorf("state response without a snapshot")
		}
		return json.Marshal(map[string]*state.Aggregate{string(RespState): r.State})
	case RespToggleResult:
		return json.Marshal(map[string]bool{string(RespToggleResult): r.Toggled})
	case RespError:
		return json.Marshal(map[string]string{string(RespError): r.Message})
	default:
		return nil, fmt.Errorf("unknown response kind %q", r.Kind)
	}
}

// UnmarshalJSON decodes either encoding.
func (r *Response) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err == nil {
		if ResponseKind(tag) != RespSuccess {
			return fmt.Errorf("unknown response %q", tag)
		}
		*r = Response{Kind: RespSuccess}
		return nil
	}

	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("invalid response encoding: %w", err)
	}
	if len(tagged) != 1 {
		return fmt.Errorf("expected exactly one response, got %d keys", len(tagged))
	}

	for tag, payload := range tagged {
		switch ResponseKind(tag) {
		case RespState:
			var agg state.Aggregate
			if err := json.Unmarshal(payload, &agg); err != nil {
				return fmt.Errorf("invalid State payload: %w", err)
			}
			*r = Response{Kind: RespState, State: &agg}
			return nil
		case RespToggleResult:
			var toggled bool
			if err := json.Unmarshal(payload, &toggled); err != nil {
				return fmt.Errorf("invalid ToggleResult payload: %w", err)
			}
			*r = Response{Kind: RespToggleResult, Toggled: toggled}
			return nil
		case RespError:
			var message string
			if err := json.Unmarshal(payload, &message); err != nil {
				return fmt.Errorf("invalid Error payload: %w", err)
			}
			*r = Response{Kind: RespError, Message: message}
			return nil
		default:
			return fmt.Errorf("unknown response %q", tag)
		}
	}
	return fmt.Errorf("empty response")
}
