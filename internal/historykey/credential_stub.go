//go:build !windows

package historykey

import "errors"

func newCredentialBackend() (Backend, error) {
	return nil, errors.New("historykey: credential backend only available on windows")
}
