//go:build windows

package historykey

import "github.com/danieljoos/wincred"

type credentialBackend struct {
	target string
}

func newCredentialBackend() (Backend, error) {
	return &credentialBackend{target: service + ":" + keyName}, nil
}

func (c *credentialBackend) Set(_, value string) error {
	cred := wincred.NewGenericCredential(c.target)
	cred.CredentialBlob = []byte(value)
	cred.Persist = wincred.PersistLocalMachine
	return cred.Write()
}

func (c *credentialBackend) Get(_ string) (string, error) {
	cred, err := wincred.GetGenericCredential(c.target)
	if err != nil {
		if err == wincred.ErrElementNotFound {
			return "", ErrNotFound
		}
		return "", err
	}
	return string(cred.CredentialBlob), nil
}
