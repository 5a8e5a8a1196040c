/*
Copyright 2025 Parklane Compare Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// GenerateUUIDWithSuffix generates a UUID with a given module name as a prefix.
// This is useful for creating unique identifiers with context-specific prefixes,
// e.g. "upload_8f14e45f..." or "recon_ceab1a9c...".
func GenerateUUIDWithSuffix(module string) string {
	id := uuid.New()
	return fmt.Sprintf("%s_%s", module, id.String())
}

// SynthesizeID derives a deterministic record id from a description. It is used
// when a source table has no usable id column. Two rows with the exact same
// description collide; that is a known limitation of hash-derived ids and is
// surfaced to callers rather than papered over.
func SynthesizeID(description string) string {
	hash := sha256.Sum256([]byte(description))
	return "auto_" + hex.EncodeToString(hash[:])[:16]
}
