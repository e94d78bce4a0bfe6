package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeOpenF1() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/sessions":
			_, _ = w.Write([]byte(`[{"session_key":7953,"session_name":"Race","session_type":"Race","year":2023,"location":"Sakhir","date_start":"2023-03-05T15:00:00+00:00","date_end":"2023-03-05T17:00:00+00:00"}]`))
		case "/session_result":
			_, _ = w.Write([]byte(`[
				{"session_key":7953,"driver_number":1,"position":1,"points":25,"gap_to_leader":0},
				{"session_key":7953,"driver_number":11,"position":2,"points":18,"gap_to_leader":11.987},
				{"session_key":7953,"driver_number":null,"points":null}
			]`))
		case "/drivers":
			_, _ = w.Write([]byte(`[
				{"driver_number":1,"first_name":"Max","last_name":"Verstappen","name_acronym":"VER","team_name":"Red Bull Racing","team_colour":"3671C6"},
				{"driver_number":11,"first_name":"Sergio","last_name":"Perez","name_acronym":"PER","team_name":"Red Bull Racing","team_colour":"3671C6"}
			]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestStandingsCommand(t *testing.T) {
	srv := fakeOpenF1()
	defer srv.Close()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"standings", "2023",
		"--api-base-url", srv.URL,
		"--log-level", "error",
		"--database", t.TempDir() + "/fav.db",
	})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	printed := out.String()
	assert.Contains(t, printed, "Drivers 2023")
	assert.Contains(t, printed, "Max Verstappen")
	assert.Contains(t, printed, "Constructors 2023")
	assert.Contains(t, printed, "43")
	assert.Equal(t, srv.URL, cfg.APIBaseURL)

	rootCmd.SetArgs([]string{"standings", "soon"})
	assert.Error(t, rootCmd.ExecuteContext(context.Background()))

	rootCmd.SetArgs([]string{"standings", "2023", "--cache-backend", "memcached"})
	err := rootCmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown cache-backend")
}
