package langhint

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		script string
		lang   string
	}{
		{"english ticket", "Critical bug, payment button broken since yesterday, very urgent", "Latin", English},
		{"spanish ticket", "El botón de pago no funciona desde ayer, es muy urgente", "Latin", Spanish},
		{"spanish marks only", "¿Pueden revisar la facturación?", "Latin", Spanish},
		{"too short", "ok thanks", "Latin", ""},
		{"no letters", "12345 !!", "", ""},
		{"other script", "Ошибка при оплате заказа", "Other", ""},
		{"ambiguous", "Error 500 Error 500 Error 500", "Latin", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			script, lang := Detect(tc.in)
			if script != tc.script || lang != tc.lang {
				t.Fatalf("Detect(%q) = (%q, %q), want (%q, %q)", tc.in, script, lang, tc.script, tc.lang)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	es := "El botón de pago no funciona desde ayer, es muy urgente"
	if got := Resolve("en", es, "en"); got != "en" {
		t.Fatalf("explicit locale must win, got %q", got)
	}
	if got := Resolve("auto", es, "en"); got != Spanish {
		t.Fatalf("auto should detect es, got %q", got)
	}
	if got := Resolve("", "ok", "es"); got != "es" {
		t.Fatalf("fallback should be default, got %q", got)
	}
}
