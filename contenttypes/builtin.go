package contenttypes

// Natural keys of the models this application registers
const (
	AppAuth      = "auth"
	AppObjectLog = "object_log"

	ModelUser      = "user"
	ModelLogAction = "logaction"
	ModelLogItem   = "logitem"
)

// RegisterBuiltins registers the application's own models
func RegisterBuiltins(r *Registry) {
	r.Register(AppAuth, ModelUser, Linkable{URL: func(pk string) string {
		return "/users/" + pk
	}})
	r.Register(AppObjectLog, ModelLogAction, PlainDisplay{})
	r.Register(AppObjectLog, ModelLogItem, PlainDisplay{})
}
