package textnorm

import (
	"reflect"
	"testing"
)

func TestNormalizeStripsHandlesAndURLs(t *testing.T) {
	tokens := Normalize("привет @vasya смотри http://example.com/x?y=1 классно")
	want := []string{"привет", "смотри", "классно"}
	if !reflect.DeepEqual(tokens, want) {
		t.Fatalf("expected %v, got %v", want, tokens)
	}
}

func TestNormalizeDropsPunctuationAndDigits(t *testing.T) {
	tokens := Normalize("Ну, что?! 123 Ёлки-палки...")
	want := []string{"ну", "что", "ёлкипалки"}
	if !reflect.DeepEqual(tokens, want) {
		t.Fatalf("expected %v, got %v", want, tokens)
	}
}

func TestNormalizeMixedAlphabets(t *testing.T) {
	tokens := Normalize("LOL это очень funny 😂")
	want := []string{"lol", "это", "очень", "funny"}
	if !reflect.DeepEqual(tokens, want) {
		t.Fatalf("expected %v, got %v", want, tokens)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	if tokens := Normalize(""); len(tokens) != 0 {
		t.Fatalf("expected empty result, got %v", tokens)
	}
	if tokens := Normalize("   \n\t "); len(tokens) != 0 {
		t.Fatalf("expected empty result for whitespace, got %v", tokens)
	}
	if tokens := Normalize("!!! 456 ???"); len(tokens) != 0 {
		t.Fatalf("expected empty result for pure noise, got %v", tokens)
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	input := "Ахах @tag ну ты Даёшь http://t.me/x"
	first := Normalize(input)
	second := Normalize(input)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %v and %v", first, second)
	}
}
