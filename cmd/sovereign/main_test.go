package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/engine"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/session"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/state"
)

func TestRunDefaultThenReset(t *testing.T) {
	sess := session.New(engine.NewSequenceSource(-20))
	var out bytes.Buffer

	run(sess, strings.NewReader("3\n3\n3\n3\nreset\nquit\n"), &out)
	text := out.String()

	if !strings.Contains(text, "DEFAULT! The country has run out of foreign reserves.") {
		t.Fatalf("expected default banner, got:\n%s", text)
	}
	if !strings.Contains(text, "transition on terminal state") {
		t.Fatalf("expected rejected fourth turn, got:\n%s", text)
	}
	if !strings.Contains(text, "New game started.") {
		t.Fatal("expected reset message")
	}
	if sess.State().Turn != 1 {
		t.Fatalf("expected fresh game after reset, got turn %d", sess.State().Turn)
	}
}

func TestRunComplete(t *testing.T) {
	sess := session.New(engine.NewSequenceSource(20))
	var out bytes.Buffer

	run(sess, strings.NewReader(strings.Repeat("nothing\n", engine.Horizon)), &out)

	if !strings.Contains(out.String(), "Simulation Complete!") {
		t.Fatalf("expected completion banner, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Turn: 8 of 8") {
		t.Fatal("turn display should cap at the horizon")
	}
}

func TestDashboardRoundsToTwoDecimals(t *testing.T) {
	s := state.Initial()
	s.ExchangeRate = 5.756789
	var out bytes.Buffer
	renderDashboard(&out, s)

	if !strings.Contains(out.String(), "5.76") {
		t.Fatalf("expected exchange rate rounded to 5.76, got:\n%s", out.String())
	}
}

func TestParseChoice(t *testing.T) {
	cases := map[string]engine.Policy{
		"1":                        engine.BorrowExternally,
		"2":                        engine.Austerity,
		"3":                        engine.DoNothing,
		"austerity":                engine.Austerity,
		"Borrow $10 externally":    engine.BorrowExternally,
		"Cut spending (Austerity)": engine.Austerity,
	}
	for in, want := range cases {
		got, err := parseChoice(in)
		if err != nil || got != want {
			t.Errorf("parseChoice(%q) = %s, %v; want %s", in, got, err, want)
		}
	}
	if _, err := parseChoice("4"); !errors.Is(err, engine.ErrUnknownPolicy) {
		t.Errorf("expected ErrUnknownPolicy for 4, got %v", err)
	}
}
