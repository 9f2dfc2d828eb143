package e

var Message = map[string]string{
	Success:       "ok",
	Accepted:      "request accepted",
	SystemError:   "error",
	Unavailable:   "command queue is unavailable",
	BadRequest:    "bad request",
	Unauthorized:  "token required",
	ConnectFailed: "connect failed",
	NotEnabled:    "commands are not enabled for this license",
	NotFound:      "not found",
	TokenInvalid:  "token is invalid",
	TokenExpired:  "token has expired",
	FAILED:        "failed",
	"ServerFaultCode: Cannot complete login due to an incorrect user name or password.": "cannot log in, wrong user name or password",
}

func GetMessage(code string) string {
	msg, ok := Message[code]
	if ok {
		return msg
	}
	return code
}
