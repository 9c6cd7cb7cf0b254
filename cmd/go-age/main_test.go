package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-age/internal/config"
	"github.com/tartampluch/go-age/internal/engine"
	"github.com/tartampluch/go-age/internal/feed"
	"github.com/tartampluch/go-age/internal/metrics"
	"github.com/tartampluch/go-age/internal/roster"
	"github.com/tartampluch/go-age/internal/server"
	"github.com/tartampluch/go-age/internal/source"
	"github.com/zalando/go-keyring"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)

const testBook = `BEGIN:VCARD
VERSION:4.0
FN:Grace
BDAY:1985-12-09
END:VCARD
BEGIN:VCARD
VERSION:4.0
FN:Ada
BDAY:1990-06-03
END:VCARD
`

func testApp() *app {
	a := newApp()
	a.logToFile = false
	a.clock = engine.FixedClock{At: testNow}
	return a
}

// execute runs the CLI with args and returns stdout and the command error.
func execute(t *testing.T, a *app, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(a)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// -----------------------------------------------------------------------------
// Root
// -----------------------------------------------------------------------------

func TestVersion(t *testing.T) {
	out, err := execute(t, testApp(), "", "--version")
	require.NoError(t, err)
	assert.Equal(t, versionLine(), out)
	assert.Contains(t, out, config.AppName)
}

func TestConfigFlag_InvalidSettings(t *testing.T) {
	path := writeFile(t, "bad.yaml", "expectancy_years: 500\n")
	_, err := execute(t, testApp(), "", "insights", "--birth", "1990-06-15", "--config", path)
	assert.ErrorIs(t, err, config.ErrSettings)
}

func TestLogLevel(t *testing.T) {
	root := newRootCmd(testApp())
	serve, _, err := root.Find([]string{config.CmdUseServe})
	require.NoError(t, err)
	insights, _, err := root.Find([]string{config.CmdUseInsights})
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", logLevel(insights, true).String())
	assert.Equal(t, "INFO", logLevel(serve, false).String())
	assert.Equal(t, "WARN", logLevel(insights, false).String())
}

// -----------------------------------------------------------------------------
// insights
// -----------------------------------------------------------------------------

func TestInsights_Text(t *testing.T) {
	out, err := execute(t, testApp(), "", "insights", "--birth", "1990-06-15", "--reference", "2025-06-15")
	require.NoError(t, err)
	assert.Contains(t, out, "35 years, 0 months, 0 days")
	assert.Contains(t, out, "Today!")
}

func TestInsights_JSONUsesClock(t *testing.T) {
	out, err := execute(t, testApp(), "", "insights", "--birth", "1990-06-15", "--json")
	require.NoError(t, err)

	var ins engine.AgeInsights
	require.NoError(t, json.Unmarshal([]byte(out), &ins))
	assert.Equal(t, 34, ins.Age.Years)
	assert.Equal(t, "2025-06-01", ins.ReferenceLabel)
	assert.Equal(t, 14, ins.NextBirthday.DaysUntil)
}

func TestInsights_CustomCatalog(t *testing.T) {
	path := writeFile(t, "settings.yaml", `expectancy_years: 90
milestones:
  - label: Half a gigasecond
    kind: seconds
    value: 500000000
`)
	out, err := execute(t, testApp(), "", "insights", "--birth", "1990-06-15", "--json", "--config", path)
	require.NoError(t, err)

	var ins engine.AgeInsights
	require.NoError(t, json.Unmarshal([]byte(out), &ins))
	assert.Equal(t, 90, ins.LifeProgress.ExpectancyYears)
	require.Len(t, ins.Milestones, 1)
	assert.Equal(t, "Half a gigasecond", ins.Milestones[0].Label)
	assert.True(t, ins.Milestones[0].Reached)
}

func TestInsights_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantIs  error
		wantMsg string
	}{
		{"missing birth", []string{"insights"}, nil, config.FlagBirth},
		{"bad birth", []string{"insights", "--birth", "1990-13-01"}, engine.ErrInvalidDate, ""},
		{"bad reference", []string{"insights", "--birth", "1990-01-01", "--reference", "x"}, engine.ErrInvalidDate, ""},
		{"reference before birth", []string{"insights", "--birth", "2000-01-02", "--reference", "2000-01-01"}, engine.ErrReferenceBeforeBirth, ""},
		{"live with reference", []string{"insights", "--birth", "2000-01-02", "--reference", "2001-01-01", "--live"}, nil, config.ErrLiveWithReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, testApp(), "", tt.args...)
			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestRunLive_StopsOnCancel(t *testing.T) {
	a := testApp()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	birth, err := engine.ParseDate("1990-06-15")
	require.NoError(t, err)

	require.NoError(t, a.runLive(ctx, &out, birth, false))
	assert.Contains(t, out.String(), "34 years")
	assert.NotContains(t, out.String(), config.ClearScreen, "buffers are not terminals")
}

// -----------------------------------------------------------------------------
// calendar
// -----------------------------------------------------------------------------

func TestCalendar_Stdout(t *testing.T) {
	out, err := execute(t, testApp(), "", "calendar", "--birth", "1990-06-15", "--name", "Ada", "--reminder", "-P1D")
	require.NoError(t, err)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "SUMMARY:Ada turns 35")
	assert.Contains(t, out, "TRIGGER:-P1D")
}

func TestCalendar_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "age"+config.ExtICS)
	out, err := execute(t, testApp(), "", "calendar", "--birth", "1990-06-15", "--out", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SUMMARY:You turns 35")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, config.FilePermUserRW, info.Mode().Perm())
}

// -----------------------------------------------------------------------------
// contacts
// -----------------------------------------------------------------------------

func TestContacts_Roster(t *testing.T) {
	path := writeFile(t, "book.vcf", testBook)
	out, err := execute(t, testApp(), "", "contacts", "--vcard", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Ada")
	assert.Contains(t, lines[0], "in 2 days")
	assert.Contains(t, lines[1], "Grace")
}

func TestContacts_JSON(t *testing.T) {
	path := writeFile(t, "book.vcf", testBook)
	out, err := execute(t, testApp(), "", "contacts", "--vcard", path, "--json")
	require.NoError(t, err)

	var entries []roster.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "Ada", entries[0].Name)
	assert.Equal(t, 35, entries[0].Insights.NextBirthday.TurnsAge)
}

func TestContacts_SourceFlags(t *testing.T) {
	_, err := execute(t, testApp(), "", "contacts")
	assert.EqualError(t, err, config.ErrSourceMissing)

	_, err = execute(t, testApp(), "", "contacts", "--vcard", "a.vcf", "--url", "https://example.com")
	assert.EqualError(t, err, config.ErrSourceConflict)
}

func TestContacts_Remote(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, testBook)
	}))
	defer ts.Close()

	out, err := execute(t, testApp(), "", "contacts", "--url", ts.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Grace")
}

// -----------------------------------------------------------------------------
// login
// -----------------------------------------------------------------------------

func TestLogin(t *testing.T) {
	keyring.MockInit()

	_, err := execute(t, testApp(), "s3cret\n", "login", "--user", "ada")
	require.NoError(t, err)

	got, err := keyring.Get(config.KeyringService, "ada")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)
}

func TestLogin_Errors(t *testing.T) {
	keyring.MockInit()

	_, err := execute(t, testApp(), "pw\n", "login")
	assert.EqualError(t, err, config.ErrUserRequired)

	_, err = execute(t, testApp(), "", "login", "--user", "ada")
	assert.EqualError(t, err, config.ErrPasswordEmpty)
}

// -----------------------------------------------------------------------------
// serve
// -----------------------------------------------------------------------------

func TestValidatePort(t *testing.T) {
	tests := []struct {
		port string
		want string
	}{
		{config.DefaultPort, ""},
		{"1", ""},
		{"65535", ""},
		{"0", config.ErrPortRange},
		{"70000", config.ErrPortRange},
		{"http", config.ErrPortNumber},
	}
	for _, tt := range tests {
		err := validatePort(tt.port)
		if tt.want == "" {
			assert.NoError(t, err, tt.port)
		} else {
			assert.EqualError(t, err, tt.want, tt.port)
		}
	}
}

func TestServe_RequiresSource(t *testing.T) {
	_, err := execute(t, testApp(), "", "serve")
	assert.EqualError(t, err, config.ErrBirthRequired)

	_, err = execute(t, testApp(), "", "serve", "--port", "nope", "--birth", "1990-06-15")
	assert.EqualError(t, err, config.ErrPortNumber)
}

func TestFeedWorker_Refresh(t *testing.T) {
	a := testApp()
	path := writeFile(t, "book.vcf", testBook)

	opts := serveOptions{birth: "1990-06-15", name: "Me"}
	opts.book.vcard = path
	people, err := a.peopleSource(opts)
	require.NoError(t, err)

	srv := server.NewCalendarServer(config.DefaultPort, a.engine, metrics.New())
	w := &feedWorker{
		engine:   a.engine,
		clock:    a.clock,
		people:   people,
		server:   srv,
		opts:     feed.Options{},
		interval: time.Hour,
	}
	require.NoError(t, w.refresh(context.Background()))

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "SUMMARY:Me turns 35")
	assert.Contains(t, body, "SUMMARY:Ada turns 35")
	assert.Contains(t, body, "SUMMARY:Grace turns 40")
}

func TestFeedWorker_RefreshError(t *testing.T) {
	a := testApp()
	boom := errors.New("boom")
	w := &feedWorker{
		engine: a.engine,
		clock:  a.clock,
		people: func(context.Context) ([]source.Person, error) { return nil, boom },
		server: server.NewCalendarServer(config.DefaultPort, a.engine, nil),
	}
	assert.ErrorIs(t, w.refresh(context.Background()), boom)
}
