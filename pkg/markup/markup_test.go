package markup

import "testing"

func TestEscape(t *testing.T) {
	cases := map[string]string{
		"<a & b>":        "&lt;a &amp; b&gt;",
		"plain":          "plain",
		"":               "",
		"&amp;":          "&amp;amp;",
		"1 < 2 && 3 > 2": "1 &lt; 2 &amp;&amp; 3 &gt; 2",
	}
	for input, want := range cases {
		if got := Escape(input); got != want {
			t.Fatalf("Escape(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestLinkDoesNotEscape(t *testing.T) {
	got := Link("https://tracker.test/issues/1", "Bug &lt;1&gt;")
	want := "<https://tracker.test/issues/1|Bug &lt;1&gt;>"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFormatStripsHTML(t *testing.T) {
	got := Format("<p>Deploy <b>now</b></p>")
	if got != "Deploy *now*" && got != "Deploy now" {
		t.Fatalf("unexpected formatted text %q", got)
	}
	if Format("   ") != "" {
		t.Fatalf("expected empty output for blank input")
	}
	if got := Format("x > y"); got != "x &gt; y" {
		t.Fatalf("unexpected escaping %q", got)
	}
}
