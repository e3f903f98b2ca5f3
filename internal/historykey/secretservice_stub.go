//go:build !linux

package historykey

import "errors"

func newSecretServiceBackend() (Backend, error) {
	return nil, errors.New("historykey: secret service backend only available on linux")
}
