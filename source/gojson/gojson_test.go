package gojson_test

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	eng "github.com/reoring/flatjson/internal/engine"
	"github.com/reoring/flatjson/source/gojson"
	jsonsrc "github.com/reoring/flatjson/source/json"
)

func collect(t *testing.T, src eng.TokenSource) []eng.Token {
	t.Helper()
	var out []eng.Token
	for {
		tok, err := src.NextToken()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("token: %v", err)
		}
		tok.Offset = 0
		out = append(out, tok)
	}
}

func TestDriver_MatchesEncodingJSON(t *testing.T) {
	inputs := []string{
		`{"a":1,"b":[true,false,null,"x"],"c":{"d":{}}}`,
		`[1.5,-0,"é\n",{"k":"v","n":[[]]}]`,
		`"scalar"`,
		`null`,
	}
	for _, in := range inputs {
		got := collect(t, gojson.NewReader(strings.NewReader(in)))
		want := collect(t, jsonsrc.NewBytes([]byte(in)))
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("token mismatch for %s\n go-json: %+v\n encoding/json: %+v", in, got, want)
		}
	}
}

func TestDriver_KeysAndValues(t *testing.T) {
	toks := collect(t, gojson.NewBytes([]byte(`{"k":"v","o":{"k2":"v2"}}`)))
	kinds := []eng.Kind{
		eng.KindBeginObject, eng.KindKey, eng.KindString, eng.KindKey,
		eng.KindBeginObject, eng.KindKey, eng.KindString, eng.KindEndObject, eng.KindEndObject,
	}
	if len(toks) != len(kinds) {
		t.Fatalf("want %d tokens, got %d", len(kinds), len(toks))
	}
	for i, k := range kinds {
		if toks[i].Kind != k {
			t.Fatalf("token %d: want %s, got %s", i, k, toks[i].Kind)
		}
	}
	if toks[5].String != "k2" || toks[6].String != "v2" {
		t.Fatalf("unexpected nested key/value: %+v %+v", toks[5], toks[6])
	}
}

func TestDriver_Names(t *testing.T) {
	if (gojson.Driver{}).Name() != "go-json" || (jsonsrc.Driver{}).Name() != "encoding/json" {
		t.Fatalf("unexpected driver names")
	}
}
