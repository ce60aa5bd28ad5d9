package main

import "testing"

func TestInferGender(t *testing.T) {
	tests := []struct {
		name      string
		rawGender string
		nameHint  string
		descHint  string
		want      gender
	}{
		{"dataset male", "for men", "", "", genderMale},
		{"dataset female", "women", "", "", genderFemale},
		{"dataset unisex wins over hints", "unisex", "Homme Intense", "pour homme", genderUnisex},
		{"single letter codes", "m", "", "", genderMale},
		{"description pour femme", "", "", "A warm floral pour femme from 2019", genderFemale},
		{"description for both", "", "", "A citrus scent for both occasions and seasons", genderUnisex},
		{"name homme", "", "Dior Homme", "", genderMale},
		{"description beats name", "", "Homme Intense", "created for women who love oud", genderFemale},
		{"no hints", "", "Ambre Nuit", "A warm oriental evening scent", genderUnisex},
	}

	for _, tt := range tests {
		if got := inferGender(tt.rawGender, tt.nameHint, tt.descHint); got != tt.want {
			t.Errorf("%s: inferGender = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestParseBrandNameFromURL(t *testing.T) {
	tests := []struct {
		url       string
		wantBrand string
		wantName  string
	}{
		{"https://www.fragrantica.com/perfume/Dior/Sauvage-31861.html", "Dior", "Sauvage"},
		{"https://www.fragrantica.com/perfume/Yves-Saint-Laurent/La-Nuit-de-L'Homme-7614.html", "Yves Saint Laurent", "La Nuit De L'homme"},
		{"https://www.fragrantica.com/perfume/Chanel/Bleu-de-Chanel-9099.html", "Chanel", "Bleu De Chanel"},
		{"https://www.fragrantica.com/news/some-article.html", "", ""},
		{"not a url at all", "", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		brand, name := parseBrandNameFromURL(tt.url)
		if brand != tt.wantBrand || name != tt.wantName {
			t.Errorf("parseBrandNameFromURL(%q) = (%q, %q), want (%q, %q)",
				tt.url, brand, name, tt.wantBrand, tt.wantName)
		}
	}
}

func TestFallbackBrandName(t *testing.T) {
	tests := []struct {
		in        string
		wantBrand string
		wantName  string
	}{
		{"Dior Sauvage Elixir", "Dior", "Sauvage Elixir"},
		{"Sauvage", "Sauvage", "Sauvage"},
		{"   ", "Unknown", ""},
	}

	for _, tt := range tests {
		brand, name := fallbackBrandName(tt.in)
		if brand != tt.wantBrand || name != tt.wantName {
			t.Errorf("fallbackBrandName(%q) = (%q, %q), want (%q, %q)",
				tt.in, brand, name, tt.wantBrand, tt.wantName)
		}
	}
}

func TestNormalizeAccords(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Woody / Citrus, Fresh", "woody|citrus|fresh"},
		{"amber|vanilla", "amber|vanilla"},
		{"  Spicy ,  ", "spicy"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := normalizeAccords(tt.in); got != tt.want {
			t.Errorf("normalizeAccords(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOneLiner(t *testing.T) {
	if got := oneLiner("A fresh spicy scent. It opens with bergamot and pepper."); got != "A fresh spicy scent" {
		t.Errorf("oneLiner = %q", got)
	}
	if got := oneLiner("  collapses \n whitespace   runs  "); got != "collapses whitespace runs" {
		t.Errorf("oneLiner = %q", got)
	}
	long := ""
	for i := 0; i < 300; i++ {
		long += "x"
	}
	if got := oneLiner(long); len([]rune(got)) != 240 {
		t.Errorf("oneLiner should cap at 240 runes, got %d", len([]rune(got)))
	}
	if got := oneLiner(""); got != "" {
		t.Errorf("oneLiner(\"\") = %q", got)
	}
}
