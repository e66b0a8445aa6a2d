package main

import (
	"reflect"
	"testing"
)

func TestWithEnvFlags(t *testing.T) {
	t.Setenv("SIMFB_FLAGS", `-noshm -display ":1" -console`)
	got, err := withEnvFlags([]string{"-width", "640"})
	if err != nil {
		t.Fatalf("withEnvFlags: %v", err)
	}
	want := []string{"-noshm", "-display", ":1", "-console", "-width", "640"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestWithEnvFlagsUnset(t *testing.T) {
	t.Setenv("SIMFB_FLAGS", "")
	got, err := withEnvFlags([]string{"-ticks", "1"})
	if err != nil || !reflect.DeepEqual(got, []string{"-ticks", "1"}) {
		t.Fatalf("got %q, %v", got, err)
	}
}
