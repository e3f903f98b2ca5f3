//go:build linux

package historykey

import "github.com/zalando/go-keyring"

type secretServiceBackend struct{}

func newSecretServiceBackend() (Backend, error) {
	return &secretServiceBackend{}, nil
}

func (s *secretServiceBackend) Set(key, value string) error {
	return keyring.Set(service, key, value)
}

func (s *secretServiceBackend) Get(key string) (string, error) {
	value, err := keyring.Get(service, key)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}
