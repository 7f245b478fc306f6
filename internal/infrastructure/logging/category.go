package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	Internal        Category = "Internal"
	RoomStore       Category = "RoomStore"
	Assignment      Category = "Assignment"
	RabbitMQ        Category = "RabbitMQ"
	MongoDB         Category = "MongoDB"
	Validation      Category = "Validation"
	RequestResponse Category = "RequestResponse"
	Prometheus      Category = "Prometheus"
)

const (
	// General
	Startup         SubCategory = "Startup"
	Shutdown        SubCategory = "Shutdown"
	RateLimiting    SubCategory = "RateLimiting"
	ExternalService SubCategory = "ExternalService"

	// RoomStore
	RoomCreate  SubCategory = "RoomCreate"
	RoomDelete  SubCategory = "RoomDelete"
	RoomShuffle SubCategory = "RoomShuffle"
	RoomReveal  SubCategory = "RoomReveal"
)

const (
	AppName      ExtraKey = "AppName"
	LoggerName   ExtraKey = "Logger"
	ClientIp     ExtraKey = "ClientIp"
	Method       ExtraKey = "Method"
	StatusCode   ExtraKey = "StatusCode"
	BodySize     ExtraKey = "BodySize"
	Path         ExtraKey = "Path"
	Latency      ExtraKey = "Latency"
	RoomID       ExtraKey = "RoomID"
	ErrorMessage ExtraKey = "ErrorMessage"
)
