package cache

import "testing"

func TestNamespacer_Key(t *testing.T) {
	tests := []struct {
		name        string
		application string
		environment string
		key         string
		override    string
		want        string
	}{
		{name: "configured", application: "App", environment: "Test", key: "validcachekey", want: "APP|TEST|VALIDCACHEKEY"},
		{name: "override", application: "App", environment: "Test", key: "k", override: "Other", want: "OTHER|TEST|K"},
		{name: "dotted application", application: "Billing.Api", environment: "Prod", key: "k", want: "BILLING|API|PROD|K"},
		{name: "override keeps dots", application: "App", environment: "Prod", key: "k", override: "a.b", want: "A.B|PROD|K"},
		{name: "empty key still namespaced", application: "App", environment: "Test", want: "APP|TEST|"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns := NewNamespacer(tt.application, tt.environment)
			if got := ns.Key(tt.key, tt.override); got != tt.want {
				t.Errorf("Key(%q, %q) = %q, want %q", tt.key, tt.override, got, tt.want)
			}
		})
	}
}

func TestNamespacer_DistinctApplicationsDoNotCollide(t *testing.T) {
	ns := NewNamespacer("App", "Test")
	if ns.Key("k", "A") == ns.Key("k", "B") {
		t.Error("different applications produced the same key")
	}
	if NewNamespacer("AB", "C").Key("k", "") == NewNamespacer("A", "BC").Key("k", "") {
		t.Error("segments must be delimited")
	}
}

func TestNamespacer_JoinKeys(t *testing.T) {
	ns := NewNamespacer("App", "Test")
	keys := []string{"users", "42"}

	tests := []struct {
		name          string
		includePrefix bool
		application   string
		want          string
	}{
		{name: "bare", want: "users|42"},
		{name: "prefixed", includePrefix: true, want: "App|Test|users|42"},
		{name: "prefixed override", includePrefix: true, application: "Other", want: "Other|Test|users|42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ns.JoinKeys(keys, tt.includePrefix, tt.application); got != tt.want {
				t.Errorf("JoinKeys() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := JoinKeys(keys); got != "users|42" {
		t.Errorf("JoinKeys() = %q", got)
	}
}
