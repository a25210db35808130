package errno

const (
	StatusOK = 10000
)

const (
	InvalidParam = 40000 + iota
	EmptyMessage
	MissingSession
)

const (
	InternalError = 50000 + iota
	SessionUnavailable
	AssistantUnavailable
)
