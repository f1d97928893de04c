package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const feedXML = `<?xml version="1.0" encoding="windows-1251"?>
<ValCurs Date="02.06.2025" name="Foreign Currency Market">
<Valute ID="R01235">
<NumCode>840</NumCode>
<CharCode>USD</CharCode>
<Nominal>1</Nominal>
<Name>Доллар США</Name>
<Value>78,6813</Value>
</Valute>
<Valute ID="R01375">
<NumCode>156</NumCode>
<CharCode>CNY</CharCode>
<Nominal>1</Nominal>
<Name>Китайский юань</Name>
<Value>10,8993</Value>
</Valute>
<Valute ID="R01820">
<NumCode>392</NumCode>
<CharCode>JPY</CharCode>
<Nominal>100</Nominal>
<Name>Японских иен</Name>
<Value>54,6311</Value>
</Valute>
</ValCurs>`

func serveFeed(t *testing.T, body string) *httptest.Server {
	t.Helper()
	encoded, err := charmap.Windows1251.NewEncoder().String(body)
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/xml; charset=windows-1251")
		_, _ = w.Write([]byte(encoded))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientRateCNY(t *testing.T) {
	srv := serveFeed(t, feedXML)
	client := NewClient(Config{FeedURL: srv.URL})

	rate, err := client.Rate(context.Background(), "CNY")
	require.NoError(t, err)
	assert.InDelta(t, 10.8993, rate, 1e-9)
}

func TestClientRateDividesByNominal(t *testing.T) {
	srv := serveFeed(t, feedXML)
	client := NewClient(Config{FeedURL: srv.URL})

	rate, err := client.Rate(context.Background(), "jpy")
	require.NoError(t, err)
	assert.InDelta(t, 0.546311, rate, 1e-9)
}

func TestClientRateUnknownCurrency(t *testing.T) {
	srv := serveFeed(t, feedXML)
	client := NewClient(Config{FeedURL: srv.URL})

	_, err := client.Rate(context.Background(), "EUR")
	assert.Error(t, err)
}

func TestClientRateHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	client := NewClient(Config{FeedURL: srv.URL})

	_, err := client.Rate(context.Background(), "CNY")
	assert.Error(t, err)
}

func TestClientRateMalformedFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not xml at all"))
	}))
	t.Cleanup(srv.Close)
	client := NewClient(Config{FeedURL: srv.URL})

	_, err := client.Rate(context.Background(), "CNY")
	assert.Error(t, err)
}
