package main

import (
	"reflect"
	"testing"
)

func TestTakeFlag(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		want  []string
		found bool
	}{
		{"absent", []string{"seed", "--mongo_uri=x"}, []string{"seed", "--mongo_uri=x"}, false},
		{"present", []string{"seed", "--reset", "--mongo_uri=x"}, []string{"seed", "--mongo_uri=x"}, true},
		{"repeated", []string{"seed", "--reset", "--reset"}, []string{"seed"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := takeFlag(tt.args, "--reset")
			if found != tt.found || !reflect.DeepEqual(got, tt.want) {
				t.Errorf("takeFlag(%v) = %v, %v; want %v, %v", tt.args, got, found, tt.want, tt.found)
			}
		})
	}
}
