package sheet

import (
	"encoding/json"
	"regexp"

	"github.com/sppgdatasystem/bgn/internal/domain/sheet"
)

const (
	contentTypeJSON = "application/json"
	contentTypeJS   = "application/javascript"
)

// callbackName accepts identifier paths such as cb or ns.cb_1.
var callbackName = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(\.[A-Za-z_$][A-Za-z0-9_$]*)*$`)

// Render encodes the envelope, wrapped as callback(json) when callback is a
// valid name. Any other callback value is ignored.
func Render(resp sheet.Response, callback string) ([]byte, string, error) {
	body, err := json.Marshal(resp)
	if err != nil {
		return nil, "", err
	}
	if callback == "" || !callbackName.MatchString(callback) {
		return body, contentTypeJSON, nil
	}

	out := make([]byte, 0, len(callback)+len(body)+2)
	out = append(out, callback...)
	out = append(out, '(')
	out = append(out, body...)
	out = append(out, ')')
	return out, contentTypeJS, nil
}
