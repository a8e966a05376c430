package timeseries

import (
	"errors"
	"testing"
)

func TestNormalize_QuotedValues(t *testing.T) {
	record := KeywordRecord{Keyword: "ski", RawTimeSeries: "'5','9','9','3'"}

	n, err := Normalize(record)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if n.Keyword != "ski" {
		t.Errorf("Expected keyword 'ski', got: %s", n.Keyword)
	}

	expected := []float64{5, 9, 9, 3}
	if n.Len() != len(expected) {
		t.Fatalf("Expected %d values, got %d", len(expected), n.Len())
	}
	for i, v := range expected {
		if n.TimeSeries[i] != v {
			t.Errorf("Value at index %d: expected %f, got %f", i, v, n.TimeSeries[i])
		}
	}
}

func TestNormalize_UnquotedAndSpaced(t *testing.T) {
	n, err := Normalize(KeywordRecord{Keyword: "socks", RawTimeSeries: "10, 12.5 ,-3,1e2"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := []float64{10, 12.5, -3, 100}
	for i, v := range expected {
		if n.TimeSeries[i] != v {
			t.Errorf("Value at index %d: expected %f, got %f", i, v, n.TimeSeries[i])
		}
	}
}

func TestNormalize_MalformedToken(t *testing.T) {
	_, err := Normalize(KeywordRecord{Keyword: "bad", RawTimeSeries: "'5','x','3'"})
	if err == nil {
		t.Fatal("Expected error for malformed token, got nil")
	}

	var malformed *MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("Expected MalformedInputError, got: %T", err)
	}
	if malformed.Keyword != "bad" {
		t.Errorf("Expected keyword 'bad', got: %s", malformed.Keyword)
	}
	if malformed.Index != 1 || malformed.Token != "x" {
		t.Errorf("Expected token 'x' at index 1, got %q at %d", malformed.Token, malformed.Index)
	}
	if KindOf(err) != KindMalformedInput {
		t.Errorf("Expected kind %s, got %s", KindMalformedInput, KindOf(err))
	}
}

func TestNormalize_RejectsNonFiniteAndEmptyTokens(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"nan", "1,NaN,3"},
		{"inf", "1,+Inf"},
		{"empty element", "1,,3"},
		{"trailing comma", "1,2,"},
		{"quoted empty", "'1','','3'"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Normalize(KeywordRecord{Keyword: "k", RawTimeSeries: test.raw})
			var malformed *MalformedInputError
			if !errors.As(err, &malformed) {
				t.Errorf("Expected MalformedInputError for %q, got: %v", test.raw, err)
			}
		})
	}
}

func TestNormalize_EmptySeries(t *testing.T) {
	for _, raw := range []string{"", "   ", "''"} {
		_, err := Normalize(KeywordRecord{Keyword: "empty", RawTimeSeries: raw})

		var empty *EmptySeriesError
		if !errors.As(err, &empty) {
			t.Errorf("Expected EmptySeriesError for %q, got: %v", raw, err)
		}
	}
}

func TestNormalizeAll_SkipsFailedRecords(t *testing.T) {
	records := []KeywordRecord{
		{Keyword: "a", RawTimeSeries: "1,2"},
		{Keyword: "b", RawTimeSeries: "'5','x','3'"},
		{Keyword: "c", RawTimeSeries: ""},
		{Keyword: "d", RawTimeSeries: "4"},
	}

	normalized, errs := NormalizeAll(records)

	if len(normalized) != 2 {
		t.Fatalf("Expected 2 normalized keywords, got %d", len(normalized))
	}
	if normalized[0].Keyword != "a" || normalized[1].Keyword != "d" {
		t.Errorf("Expected keywords a and d in order, got %s and %s", normalized[0].Keyword, normalized[1].Keyword)
	}
	if len(errs) != 2 {
		t.Fatalf("Expected 2 errors, got %d", len(errs))
	}
	if KindOf(errs[0]) != KindMalformedInput || KindOf(errs[1]) != KindEmptySeries {
		t.Errorf("Unexpected error kinds: %s, %s", KindOf(errs[0]), KindOf(errs[1]))
	}
}

func TestKindOf_SourceRead(t *testing.T) {
	err := &SourceReadError{Source: "dataset.csv", Err: errors.New("disk gone")}
	if KindOf(err) != KindSourceRead {
		t.Errorf("Expected kind %s, got %s", KindSourceRead, KindOf(err))
	}
	if KindOf(errors.New("other")) != KindUnknown {
		t.Error("Expected unknown kind for plain error")
	}
}
