package secrets_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/preen/pkg/domain/model"
	"github.com/secmon-lab/preen/pkg/service/secrets"
)

func writeSecrets(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "secrets.json")
	gt.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const sampleSecrets = `{
  "sites": {
    "linkedin": {"username": "user@example.com", "password": "hunter2"},
    "naukri": {"username": "user@example.com", "password": "hunter3"}
  },
  "notification_address": "#keepalive"
}`

func TestFileSource(t *testing.T) {
	ctx := context.Background()

	t.Run("parses the credential file", func(t *testing.T) {
		path := writeSecrets(t, t.TempDir(), sampleSecrets)
		src := secrets.NewFileSource(path)

		creds, err := src.Get(ctx)
		gt.NoError(t, err)
		gt.Equal(t, creds.NotificationAddress, "#keepalive")

		cred, ok := creds.Site("linkedin")
		gt.B(t, ok).True()
		gt.Equal(t, cred.Username, "user@example.com")
		gt.Equal(t, cred.Password, "hunter2")

		_, ok = creds.Site("indeed")
		gt.B(t, ok).False()
	})

	t.Run("serves from cache within the TTL", func(t *testing.T) {
		dir := t.TempDir()
		path := writeSecrets(t, dir, sampleSecrets)

		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		src := secrets.NewFileSource(path,
			secrets.WithClock(func() time.Time { return now }))

		first, err := src.Get(ctx)
		gt.NoError(t, err)
		gt.Equal(t, first.NotificationAddress, "#keepalive")

		writeSecrets(t, dir, `{"sites": {}, "notification_address": "#changed"}`)

		now = now.Add(time.Minute)
		cached, err := src.Get(ctx)
		gt.NoError(t, err)
		gt.Equal(t, cached.NotificationAddress, "#keepalive")

		now = now.Add(10 * time.Minute)
		fresh, err := src.Get(ctx)
		gt.NoError(t, err)
		gt.Equal(t, fresh.NotificationAddress, "#changed")
	})

	t.Run("zero TTL disables caching", func(t *testing.T) {
		dir := t.TempDir()
		path := writeSecrets(t, dir, sampleSecrets)
		src := secrets.NewFileSource(path, secrets.WithTTL(0))

		_, err := src.Get(ctx)
		gt.NoError(t, err)

		writeSecrets(t, dir, `{"sites": {}, "notification_address": "#changed"}`)
		fresh, err := src.Get(ctx)
		gt.NoError(t, err)
		gt.Equal(t, fresh.NotificationAddress, "#changed")
	})

	t.Run("missing file fails", func(t *testing.T) {
		src := secrets.NewFileSource(filepath.Join(t.TempDir(), "absent.json"))
		_, err := src.Get(ctx)
		gt.Error(t, err)
	})

	t.Run("malformed JSON is a config error", func(t *testing.T) {
		path := writeSecrets(t, t.TempDir(), `{"sites": [`)
		src := secrets.NewFileSource(path)

		_, err := src.Get(ctx)
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.TagConfig)).True()
	})

	t.Run("parsed payload passes model validation", func(t *testing.T) {
		path := writeSecrets(t, t.TempDir(), sampleSecrets)
		src := secrets.NewFileSource(path)

		creds, err := src.Get(ctx)
		gt.NoError(t, err)

		enabled := []model.Site{{ID: "linkedin"}, {ID: "naukri"}}
		gt.NoError(t, creds.Validate(enabled))
	})
}
