//go:build !darwin

package historykey

import "errors"

func newKeychainBackend() (Backend, error) {
	return nil, errors.New("historykey: keychain backend only available on darwin")
}
