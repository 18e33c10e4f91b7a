// Package auth maps API keys to users for the JSON API. The user name is also
// the partition that archived reports are stored under.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// TestUserNoLLM is served fixed responses so that integrations can be tested
// without a model.
const TestUserNoLLM = "test-user-no-llm"

func New(apiKeyToUserName map[string]string, next http.Handler) *Auth {
	return &Auth{
		Next:             next,
		APIKeyToUserName: apiKeyToUserName,
	}
}

type Auth struct {
	Next             http.Handler
	APIKeyToUserName map[string]string
}

// LoadFromFile reads a map of API keys to user names. Files ending in .yaml or
// .yml are read as YAML, anything else as JSON.
func LoadFromFile(name string) (apiKeyToUserName map[string]string, err error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m := make(map[string]string)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		err = yaml.NewDecoder(f).Decode(&m)
	default:
		err = json.NewDecoder(f).Decode(&m)
	}
	if err != nil {
		return nil, fmt.Errorf("auth: failed to decode %s: %w", name, err)
	}
	return m, nil
}

type userContextKey int

const userKey userContextKey = 0

func GetUser(r *http.Request) (user string, ok bool) {
	user, ok = r.Context().Value(userKey).(string)
	return
}

func WithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func (a *Auth) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	user, ok := a.APIKeyToUserName[key]
	if key == "" || !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	a.Next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
}
