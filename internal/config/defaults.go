package config

import "time"

// Default values for configuration
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = false

	DefaultDBPath  = "servermanage.db"
	DefaultDataDir = "data"

	DefaultDiscordPrefix         = "!"
	DefaultDiscordRequestTimeout = 30 * time.Second

	DefaultConfirmTimeout = 30 * time.Second
	DefaultPageLength     = 2000

	// Task names, matching the keys of the scheduler.tasks section.
	TaskImageRotation  = "image_rotation"
	TaskSQLMaintenance = "sql_maintenance"

	DefaultImageRotationSchedule  = "0 * * * *"
	DefaultSQLMaintenanceSchedule = "0 3 * * 0"
)

// DefaultMessages are the replies used when config.yaml does not override them.
var DefaultMessages = MessagesConfig{
	PageLength: DefaultPageLength,

	Usage: "Usage: servermanage|sm icons|banners <action>\n" +
		"  add <name> (attach one PNG or GIF)\n" +
		"  remove <name>\n" +
		"  show <name>\n" +
		"  list\n" +
		"  set <month> <day> <name>\n" +
		"  reset <month> <day>",
	NotAuthorized:  "You are not allowed to manage this server's images.",
	GeneralError:   "An error occurred. Please try again later.",
	Unsupported:    "This platform does not support server %s.",
	InvalidName:    "Please use a name of at most 100 characters without slashes.",
	AttachOne:      "Please attach one file!",
	NotAnImage:     "The file is not an image, please upload an image!",
	UnsupportedExt: "Please upload a PNG or GIF image!",

	OverwritePrompt:   ":warning: This %s already exists. Would you like to overwrite it? Please type `yes` to overwrite.",
	OverwriteTimeout:  "You took too long, not overwriting the existing %s.",
	OverwriteDeclined: "Not overwriting the %s.",
	Saved:             "Saved the %s as %s!",

	NotFound:       "This %s doesn't exist!",
	DeletePrompt:   "Are you sure you want to delete? Please type `yes` to confirm.",
	DeleteTimeout:  "You took too long, not deleting the %s.",
	DeleteDeclined: "Not deleting the %s.",
	Deleted:        "Deleted the %s named %s!",
	FileMissing:    ":warning: Error: The file does not exist",

	ListEmpty:  "There are no %s, please add some first!",
	ListTitle:  "Server %s changes for %s",
	ListFooter: "Page %d/%d",

	InvalidDate:      "Please enter a valid date!",
	DateSet:          "On %s, the server %s will change to %s",
	DateReset:        "Removed %s from %s changes.",
	NothingScheduled: "There are no %s changes on this date!",
}

// DefaultTasks checks for image rotation at the top of every local hour and
// schedules a weekly database maintenance run. Only the first check of a
// calendar day applies updates.
var DefaultTasks = map[string]TaskConfig{
	TaskImageRotation:  {Enabled: true, Schedule: DefaultImageRotationSchedule, RunOnStart: true},
	TaskSQLMaintenance: {Enabled: true, Schedule: DefaultSQLMaintenanceSchedule},
}
