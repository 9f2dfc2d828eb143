package e

// Response codes. The first digit follows the HTTP status class, 9999 marks a failed async result.
const (
	Success  = "2000"
	Accepted = "2020"

	BadRequest    = "4000"
	ConnectFailed = "4001"
	NotEnabled    = "4002"
	Unauthorized  = "4010"
	TokenInvalid  = "4011"
	TokenExpired  = "4012"
	NotFound      = "4040"

	SystemError = "5000"
	Unavailable = "5030"

	FAILED = "9999"
)
