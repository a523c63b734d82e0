package pkg

const (
	AppVersion = "2.0.0"
)
