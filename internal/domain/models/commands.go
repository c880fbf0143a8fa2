package models

import "strings"

// CommandType enumerates the harvest queries agents can send over WhatsApp.
type CommandType string

const (
	CommandDemand   CommandType = "demand"
	CommandHarvest  CommandType = "harvest"
	CommandRequests CommandType = "requests"
	CommandHelp     CommandType = "help"
	CommandUnknown  CommandType = "unknown"
)

// Command represents a parsed instruction extracted from WhatsApp text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command instance from free-form text messages.
// Arguments keep their original case since request ids are case sensitive.
func ParseCommand(message string) Command {
	tokens := strings.Fields(strings.TrimSpace(message))
	cmd := Command{Raw: message}

	if len(tokens) == 0 {
		cmd.Type = CommandUnknown
		return cmd
	}

	head := strings.ToLower(strings.TrimPrefix(tokens[0], "/"))
	switch head {
	case string(CommandDemand):
		cmd.Type = CommandDemand
	case string(CommandHarvest), "today":
		cmd.Type = CommandHarvest
	case string(CommandRequests), "list":
		cmd.Type = CommandRequests
	case string(CommandHelp):
		cmd.Type = CommandHelp
	default:
		cmd.Type = CommandUnknown
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
