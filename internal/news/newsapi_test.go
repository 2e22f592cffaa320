package news

import "testing"

func TestAPIProviderIsConfigured(t *testing.T) {
	t.Setenv("TEST_NEWSAPI_KEY", "")
	if NewAPIProvider("TEST_NEWSAPI_KEY", "en").IsConfigured() {
		t.Error("expected unconfigured provider without an API key")
	}

	t.Setenv("TEST_NEWSAPI_KEY", "secret")
	if !NewAPIProvider("TEST_NEWSAPI_KEY", "en").IsConfigured() {
		t.Error("expected configured provider with an API key")
	}
}
