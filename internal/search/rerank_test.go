package search

import (
	"math"
	"strings"
	"testing"
)

func TestLexicalScoreBasicMatch(t *testing.T) {
	query := "bone loss"
	chunk := "Mice in orbit showed bone loss. The loss of bone density was reversible."
	score := lexicalScore(query, chunk, nil, "")

	if score <= 0 {
		t.Fatalf("expected score to be positive, got %f", score)
	}
	if score > maxLexicalScore {
		t.Fatalf("score should be clamped to maxLexicalScore, got %f", score)
	}
}

func TestLexicalScoreTagBonus(t *testing.T) {
	query := "radiation"
	chunk := "General context without the keyword."
	score := lexicalScore(query, chunk, []string{"moon", "radiation"}, "space")

	if math.Abs(score-tagMatchBonus) > 0.0001 {
		t.Fatalf("expected tag bonus only (%f), got %f", tagMatchBonus, score)
	}
}

func TestLexicalScoreCategoryBonus(t *testing.T) {
	score := lexicalScore("planets", "Nothing relevant here.", nil, "planets")

	if math.Abs(score-tagMatchBonus) > 0.0001 {
		t.Fatalf("expected category bonus only (%f), got %f", tagMatchBonus, score)
	}
}

func TestLexicalScoreStopwordsRemoved(t *testing.T) {
	query := "the and of"
	chunk := "the and of"
	score := lexicalScore(query, chunk, []string{"the"}, "")

	if score != 0 {
		t.Fatalf("expected score 0 when query tokens are only stopwords, got %f", score)
	}
}

func TestLexicalScoreNormalization(t *testing.T) {
	query := "rover"
	chunk := "rover " + strings.Repeat(" filler", 200)
	score := lexicalScore(query, chunk, nil, "")

	if score <= 0 {
		t.Fatalf("expected normalized score to stay positive, got %f", score)
	}
	if score > maxLexicalScore {
		t.Fatalf("expected score to be clamped to %f, got %f", maxLexicalScore, score)
	}
}
