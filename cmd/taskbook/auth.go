package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/cuemby/taskbook/pkg/credentials"
	"github.com/cuemby/taskbook/pkg/wire"
)

var (
	authServerURL string
	authUsername  string
	authEmail     string
	authPassword  string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account on a sync server and switch this machine to it",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := postJSON(authServerURL, "/register", wire.RegisterRequest{
			Username: authUsername,
			Email:    authEmail,
			Password: authPassword,
		})
		if err != nil {
			return err
		}

		encodedKey, _, err := credentials.GenerateEncryptionKey()
		if err != nil {
			return fmt.Errorf("generating encryption key: %w", err)
		}

		path, err := credentials.DefaultPath()
		if err != nil {
			return err
		}
		creds := &credentials.Credentials{
			ServerURL:     authServerURL,
			Token:         resp.Token,
			EncryptionKey: encodedKey,
		}
		if err := credentials.Save(path, creds); err != nil {
			return fmt.Errorf("saving credentials: %w", err)
		}

		fmt.Println("Account created. This machine is now synced against", authServerURL)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to an existing account on a sync server",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := postJSON(authServerURL, "/login", wire.LoginRequest{
			Username: authUsername,
			Password: authPassword,
		})
		if err != nil {
			return err
		}

		path, err := credentials.DefaultPath()
		if err != nil {
			return err
		}

		// Preserve the encryption key from an existing credentials file,
		// whichever server it names (re-login shouldn't re-key a working
		// vault); only generate a fresh one if no key is on disk yet.
		encodedKey := ""
		if existing, err := credentials.Load(path); err == nil {
			encodedKey = existing.EncryptionKey
		}
		if encodedKey == "" {
			k, _, err := credentials.GenerateEncryptionKey()
			if err != nil {
				return fmt.Errorf("generating encryption key: %w", err)
			}
			encodedKey = k
		}

		creds := &credentials.Credentials{
			ServerURL:     authServerURL,
			Token:         resp.Token,
			EncryptionKey: encodedKey,
		}
		if err := credentials.Save(path, creds); err != nil {
			return fmt.Errorf("saving credentials: %w", err)
		}

		fmt.Println("Logged in to", authServerURL)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Delete local credentials and fall back to local storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := credentials.DefaultPath()
		if err != nil {
			return err
		}
		creds, err := credentials.Load(path)
		if err == nil {
			req, _ := http.NewRequest(http.MethodDelete, creds.ServerURL+"/logout", nil)
			req.Header.Set("Authorization", "Bearer "+creds.Token)
			client := &http.Client{Timeout: 10 * time.Second}
			if resp, err := client.Do(req); err == nil {
				resp.Body.Close()
			}
		}
		if err := credentials.Delete(path); err != nil {
			return fmt.Errorf("removing credentials: %w", err)
		}
		fmt.Println("Logged out")
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{registerCmd, loginCmd} {
		cmd.Flags().StringVar(&authServerURL, "server", "", "Sync server base URL")
		cmd.Flags().StringVar(&authUsername, "username", "", "Username")
		cmd.MarkFlagRequired("server")
		cmd.MarkFlagRequired("username")
	}
	registerCmd.Flags().StringVar(&authEmail, "email", "", "Email address")
	registerCmd.MarkFlagRequired("email")

	for _, cmd := range []*cobra.Command{registerCmd, loginCmd} {
		cmd.Flags().StringVar(&authPassword, "password", "", "Password")
		cmd.MarkFlagRequired("password")
	}
}

func postJSON(baseURL, path string, body any) (*wire.RegisterResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("contacting %s: %w", baseURL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode >= 400 {
		var e wire.ErrorResponse
		if json.Unmarshal(respBody, &e) == nil && e.Error != "" {
			return nil, fmt.Errorf("%s", e.Error)
		}
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	var out wire.RegisterResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	return &out, nil
}
