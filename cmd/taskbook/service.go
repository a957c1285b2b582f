package main

import (
	"fmt"

	"github.com/cuemby/taskbook/pkg/credentials"
	"github.com/cuemby/taskbook/pkg/store"
	"github.com/cuemby/taskbook/pkg/store/localstore"
	"github.com/cuemby/taskbook/pkg/store/remotestore"
	"github.com/cuemby/taskbook/pkg/taskservice"
)

// openService builds a Service against whichever backend this machine is
// configured for: a RemoteStore if a credentials file exists (the user has
// logged in to a sync server), a LocalStore otherwise.
func openService() (*taskservice.Service, error) {
	s, err := openStore()
	if err != nil {
		return nil, err
	}
	return taskservice.New(s), nil
}

func openStore() (store.Store, error) {
	path, err := credentials.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("resolving credentials path: %w", err)
	}
	creds, err := credentials.Load(path)
	if err == nil {
		key, err := creds.EncryptionKeyBytes()
		if err != nil {
			return nil, err
		}
		return remotestore.New(creds.ServerURL, creds.Token, key)
	}
	return localstore.New(dataDir)
}
