package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

const (
	maxBodyBytes = 1 << 20

	msgMalformedJSON = "Format request tidak valid"
	msgIncomplete    = "Data tidak lengkap"
	msgInvalid       = "Data invalid"
)

var validate = validator.New()

// decodeRequest reads a JSON body into dst and validates it. A missing
// required field answers with missingMsg, any other rule with msgInvalid.
// It returns false once a response has been written.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst interface{}, missingMsg string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, msgMalformedJSON)
		return false
	}

	if err := validate.Struct(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err, missingMsg))
		return false
	}
	return true
}

func validationMessage(err error, missingMsg string) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return msgInvalid
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return missingMsg
		}
	}
	return msgInvalid
}
