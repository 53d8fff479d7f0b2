package errors

// ErrorResponse is the JSON body the platform returns with non-2xx
// statuses, and sometimes embedded in 200 bodies of action endpoints.
//
//	{"error": "reason, as the user should read it"}
type ErrorResponse struct {
	Message string `json:"error"`
}

func (e ErrorResponse) Error() string {
	return e.Message
}
