// Copyright (c) 2025 Alexey Mayshev and contributors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package marten

import (
	"context"
	"errors"
)

// ErrNotFound should be returned from a Loader.Load to indicate that an entry is
// missing at the underlying data source. This helps the cache to determine
// if an entry should be deleted.
//
// NOTE: this only applies when using Cache.Get. The cache never stores
// a value for which the loader returned ErrNotFound.
var ErrNotFound = errors.New("marten: the entry was not found in the data source")

// Loader computes or retrieves values, based on a key, for use in populating a Cache.
type Loader[K comparable, V any] interface {
	// Load computes or retrieves the value corresponding to key.
	//
	// WARNING: loading must not attempt to update any mappings of this cache directly.
	Load(ctx context.Context, key K) (V, error)
}

// LoaderFunc is an adapter to allow the use of ordinary functions as loaders.
// If f is a function with the appropriate signature, LoaderFunc(f) is a Loader that calls f.
type LoaderFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

// Load calls f(ctx, key).
func (lf LoaderFunc[K, V]) Load(ctx context.Context, key K) (V, error) {
	return lf(ctx, key)
}
