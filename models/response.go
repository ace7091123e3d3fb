package models

// Envelope is the body shape shared by every /user route. The logical status
// travels in StatusCode; the transport status is 200.
type Envelope struct {
	Data       interface{}  `json:"data,omitempty"`
	Error      []FieldError `json:"error,omitempty"`
	Success    bool         `json:"success"`
	StatusCode int          `json:"statusCode"`
}

type FieldError struct {
	Value    interface{} `json:"value,omitempty"`
	Msg      string      `json:"msg"`
	Param    string      `json:"param,omitempty"`
	Location string      `json:"location,omitempty"`
}

// Result is what the user service hands back for operations whose body the
// handler forwards verbatim.
type Result struct {
	Response map[string]interface{}
	Status   int
}

func ErrorList(msg string) []FieldError {
	return []FieldError{{Msg: msg}}
}

func Failure(status int, msg string) Envelope {
	return Envelope{Error: ErrorList(msg), Success: false, StatusCode: status}
}

// Body flattens Response and appends statusCode.
func (r Result) Body(statusCode int) map[string]interface{} {
	body := make(map[string]interface{}, len(r.Response)+1)
	for k, v := range r.Response {
		body[k] = v
	}
	body["statusCode"] = statusCode
	return body
}
