//  Copyright (c) 2014 Couchbase, Inc.
//  Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file
//  except in compliance with the License. You may obtain a copy of the License at
//    http://www.apache.org/licenses/LICENSE-2.0
//  Unless required by applicable law or agreed to in writing, software distributed under the
//  License is distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND,
//  either express or implied. See the License for the specific language governing permissions
//  and limitations under the License.

package rest

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/elazarl/go-bindata-assetfs"
	"github.com/gorilla/mux"
)

// staticIndexHTML is the ringcover status page: a link to /api/stats
// for a browser, without shipping a real asset pipeline. There's no generated bindata file (no js/css bundle
// to speak of), so the handful of assets below are authored by hand
// and served through assetfs.AssetFS.
var staticIndexHTML = []byte(`<!DOCTYPE html>
<html><head><title>ringcover</title></head>
<body>
<h1>ringcover</h1>
<p><a href="/api/stats">/api/stats</a></p>
</body></html>
`)

var staticAssets = map[string][]byte{
	"index.html": staticIndexHTML,
}

type staticFileInfo struct {
	name string
	size int64
}

func (fi staticFileInfo) Name() string       { return fi.name }
func (fi staticFileInfo) Size() int64        { return fi.size }
func (fi staticFileInfo) Mode() os.FileMode  { return 0444 }
func (fi staticFileInfo) ModTime() time.Time { return time.Time{} }
func (fi staticFileInfo) IsDir() bool        { return false }
func (fi staticFileInfo) Sys() interface{}   { return nil }

func asset(name string) ([]byte, error) {
	b, ok := staticAssets[name]
	if !ok {
		return nil, fmt.Errorf("rest: asset not found: %s", name)
	}
	return b, nil
}

func assetDir(name string) ([]string, error) {
	if name != "" {
		return nil, fmt.Errorf("rest: asset dir not found: %s", name)
	}
	names := make([]string, 0, len(staticAssets))
	for n := range staticAssets {
		names = append(names, n)
	}
	return names, nil
}

func assetInfo(name string) (os.FileInfo, error) {
	b, err := asset(name)
	if err != nil {
		return nil, err
	}
	return staticFileInfo{name: name, size: int64(len(b))}, nil
}

// AssetFS returns the assetfs.AssetFS serving ringcover's embedded
// status page.
func AssetFS() *assetfs.AssetFS {
	return &assetfs.AssetFS{
		Asset:    asset,
		AssetDir: assetDir,
		AssetInfo: func(name string) (os.FileInfo, error) {
			return assetInfo(name)
		},
	}
}

// InitStaticFileRouter adds the embedded status page to a router.
func InitStaticFileRouter(r *mux.Router) *mux.Router {
	s := http.FileSystem(AssetFS())

	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/",
		http.FileServer(s)))
	r.Handle("/", http.RedirectHandler("/static/index.html", http.StatusFound))

	return r
}
