package handler

import (
	"net/http"
)

// ActionGeneratePassword is the action name used by the account form script.
const ActionGeneratePassword = "generate_password"

// Dispatch routes a form POST to the handler registered for its "action"
// field, read from the query string or a urlencoded body.
func Dispatch(actions map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse("invalid form body"))
			return
		}

		action := r.Form.Get("action")
		h, ok := actions[action]
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse("unknown action"))
			return
		}
		h(w, r)
	}
}
