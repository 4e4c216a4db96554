// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"testing"
)

func TestChecksum(t *testing.T) {
	data := []byte(`{"version":1}`)

	sum := sha256.Sum256(data)
	want := hex.EncodeToString(sum[:])

	if got := Checksum(data); got != want {
		t.Fatalf("unexpected checksum\nwant: %s\ngot:  %s", want, got)
	}
	if Checksum(data) != Checksum(data) {
		t.Fatal("checksum must be deterministic for the same input")
	}
	if Checksum([]byte("a")) == Checksum([]byte("b")) {
		t.Fatal("different inputs must give different checksums")
	}
}

func TestChecksum_Concurrent(t *testing.T) {
	want := Checksum([]byte("payload"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := Checksum([]byte("payload")); got != want {
				t.Errorf("concurrent checksum mismatch: %s", got)
			}
		}()
	}
	wg.Wait()
}

func TestVerifyChecksum(t *testing.T) {
	data := []byte("blob")

	if !VerifyChecksum(data, Checksum(data)) {
		t.Error("expected matching checksum to verify")
	}
	if !VerifyChecksum(data, "") {
		t.Error("expected empty checksum to be accepted")
	}
	if VerifyChecksum(data, Checksum([]byte("other"))) {
		t.Error("expected mismatching checksum to fail")
	}
}
