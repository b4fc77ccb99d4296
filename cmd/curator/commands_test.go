package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"curator/internal/config"
	"curator/internal/dispatch"
	"curator/internal/media"
)

const testManifest = `{"images": [
  {"url": "/art/poster-en.jpg", "type": "Primary", "language": "en", "width": 1000, "height": 1500},
  {"url": "/art/poster-fr.jpg", "type": "Primary", "language": "fr"},
  {"url": "/art/backdrop.jpg", "type": "Backdrop"}
]}`

func newArtServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/Film.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, testManifest)
	})
	mux.HandleFunc("/art/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		fmt.Fprint(w, "jpeg:"+filepath.Base(r.URL.Path))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func manifestConfig(serverURL string) string {
	return fmt.Sprintf(`[[manifest_sources]]
name = "Test Art"
url_template = "%s/{type}/{name}.json"
item_types = ["Movie"]
image_types = ["Primary", "Backdrop"]
`, serverURL)
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t, "")

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.configPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, env.configPath)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, _, err := config.Load(target); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, env.configPath); err == nil {
		t.Fatal("expected init without --overwrite to refuse an existing file")
	}
}

func TestConfigValidateReportsBadConfig(t *testing.T) {
	env := setupCLITestEnv(t, "[[manifest_sources]]\nname = \"Broken\"\nurl_template = \"ftp://example.com/{name}\"\n")
	if _, _, err := runCLI(t, []string{"config", "validate"}, env.configPath); err == nil {
		t.Fatal("expected validation error for ftp manifest source")
	}
}

func TestPluginsReportsBundledPlugins(t *testing.T) {
	server := newArtServer(t)
	env := setupCLITestEnv(t, manifestConfig(server.URL))

	out, _, err := runCLI(t, []string{"plugins", "--type", "movie", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("plugins: %v", err)
	}
	var summaries []dispatch.MetadataPluginSummary
	if err := json.Unmarshal([]byte(out), &summaries); err != nil {
		t.Fatalf("decode plugins output: %v\n%s", err, out)
	}
	if len(summaries) != 1 || summaries[0].ItemType != media.TypeMovie {
		t.Fatalf("expected one Movie summary, got %+v", summaries)
	}
	want := map[dispatch.MetadataPlugin]bool{
		{Name: "Curator Sidecar", Type: dispatch.PluginLocalMetadataProvider}: false,
		{Name: "Curator Sidecar", Type: dispatch.PluginMetadataSaver}:         false,
		{Name: "Local Images", Type: dispatch.PluginLocalImageProvider}:       false,
		{Name: "Test Art", Type: dispatch.PluginImageFetcher}:                 false,
	}
	for _, p := range summaries[0].Plugins {
		if _, ok := want[p]; ok {
			want[p] = true
		}
	}
	for p, seen := range want {
		if !seen {
			t.Fatalf("expected plugin %+v in %+v", p, summaries[0].Plugins)
		}
	}
	if len(summaries[0].SupportedImageTypes) != 2 {
		t.Fatalf("expected Primary and Backdrop, got %v", summaries[0].SupportedImageTypes)
	}

	out, _, err = runCLI(t, []string{"plugins"}, env.configPath)
	if err != nil {
		t.Fatalf("plugins table: %v", err)
	}
	requireContains(t, out, "Movie (images: Primary, Backdrop)")
	requireContains(t, out, "AdultVideo")
}

func TestOptionsTrailerSharesMovieEntry(t *testing.T) {
	env := setupCLITestEnv(t, `[[metadata_options]]
item_type = "Movie"
image_fetcher_order = ["Test Art"]
disabled_metadata_savers = ["Other Saver"]
`)

	out, _, err := runCLI(t, []string{"options", "trailer", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	var options config.MetadataOptions
	if err := json.Unmarshal([]byte(out), &options); err != nil {
		t.Fatalf("decode options: %v\n%s", err, out)
	}
	if options.ItemType != "Movie" {
		t.Fatalf("expected Movie entry, got %q", options.ItemType)
	}
	if len(options.ImageFetcherOrder) != 1 || options.ImageFetcherOrder[0] != "Test Art" {
		t.Fatalf("unexpected image fetcher order %v", options.ImageFetcherOrder)
	}

	out, _, err = runCLI(t, []string{"options", "Series"}, env.configPath)
	if err != nil {
		t.Fatalf("options series: %v", err)
	}
	requireContains(t, out, "Series")
	requireNotContains(t, out, "Test Art")

	if _, _, err := runCLI(t, []string{"options", "Spaceship"}, env.configPath); err == nil {
		t.Fatal("expected unknown item type to fail")
	}
}

func TestImagesFiltersEnglishUnlessAllLanguages(t *testing.T) {
	server := newArtServer(t)
	env := setupCLITestEnv(t, manifestConfig(server.URL))
	path := env.moviePath(t, "Film")

	out, _, err := runCLI(t, []string{"images", path, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("images: %v", err)
	}
	var images []media.RemoteImageInfo
	if err := json.Unmarshal([]byte(out), &images); err != nil {
		t.Fatalf("decode images: %v\n%s", err, out)
	}
	if len(images) != 2 {
		t.Fatalf("expected english and untagged images, got %+v", images)
	}
	for _, img := range images {
		if img.Language == "fr" {
			t.Fatalf("french image leaked through english filter: %+v", img)
		}
		if img.ProviderName != "Test Art" {
			t.Fatalf("expected provider name stamped, got %+v", img)
		}
	}

	out, _, err = runCLI(t, []string{"images", path, "--all-languages", "--image-type", "primary", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("images all languages: %v", err)
	}
	images = nil
	if err := json.Unmarshal([]byte(out), &images); err != nil {
		t.Fatalf("decode images: %v\n%s", err, out)
	}
	if len(images) != 2 {
		t.Fatalf("expected both primary images, got %+v", images)
	}

	out, _, err = runCLI(t, []string{"images", path, "--providers"}, env.configPath)
	if err != nil {
		t.Fatalf("images providers: %v", err)
	}
	requireContains(t, out, "Test Art")
	requireContains(t, out, "Primary, Backdrop")
}

func TestImagesTableShowsLanguageNames(t *testing.T) {
	server := newArtServer(t)
	env := setupCLITestEnv(t, manifestConfig(server.URL))
	path := env.moviePath(t, "Film")

	out, _, err := runCLI(t, []string{"images", path, "--all-languages", "--image-type", "primary"}, env.configPath)
	if err != nil {
		t.Fatalf("images: %v", err)
	}
	requireContains(t, out, "English")
	requireContains(t, out, "French")
}

func TestImagesRespectsInternetSwitch(t *testing.T) {
	server := newArtServer(t)
	env := setupCLITestEnv(t, manifestConfig(server.URL))
	path := env.moviePath(t, "Film")
	t.Setenv("CURATOR_ENABLE_INTERNET_PROVIDERS", "false")

	out, _, err := runCLI(t, []string{"images", path}, env.configPath)
	if err != nil {
		t.Fatalf("images: %v", err)
	}
	requireContains(t, out, "No remote images found")

	out, _, err = runCLI(t, []string{"images", path, "--include-disabled", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("images include disabled: %v", err)
	}
	requireContains(t, out, "poster-en.jpg")
}

func TestRefreshDownloadsMissingArtwork(t *testing.T) {
	server := newArtServer(t)
	env := setupCLITestEnv(t, manifestConfig(server.URL))
	path := env.moviePath(t, "Film")
	dir := filepath.Dir(path)

	out, _, err := runCLI(t, []string{"refresh", path}, env.configPath)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	requireContains(t, out, "Refreshed Film (Movie)")

	poster, err := os.ReadFile(filepath.Join(dir, "poster.jpg"))
	if err != nil {
		t.Fatalf("expected poster: %v", err)
	}
	if string(poster) != "jpeg:poster-en.jpg" {
		t.Fatalf("unexpected poster content %q", poster)
	}
	if _, err := os.Stat(filepath.Join(dir, "backdrop.jpg")); err != nil {
		t.Fatalf("expected backdrop: %v", err)
	}
}

func TestRefreshKeepsExistingLocalArtwork(t *testing.T) {
	server := newArtServer(t)
	env := setupCLITestEnv(t, manifestConfig(server.URL))
	path := env.moviePath(t, "Film")
	dir := filepath.Dir(path)
	existing := filepath.Join(dir, "poster.png")
	if err := os.WriteFile(existing, []byte("mine"), 0o644); err != nil {
		t.Fatalf("write poster: %v", err)
	}

	if _, _, err := runCLI(t, []string{"refresh", path}, env.configPath); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "poster.jpg")); !os.IsNotExist(err) {
		t.Fatalf("expected no downloaded poster, stat err=%v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "backdrop.jpg")); err != nil {
		t.Fatalf("expected backdrop: %v", err)
	}
}

func TestSaveWritesAndReloadsSidecar(t *testing.T) {
	env := setupCLITestEnv(t, "")
	path := env.moviePath(t, "Film")
	sidecarPath := filepath.Join(filepath.Dir(path), "Film.curator.json")

	out, _, err := runCLI(t, []string{"save", path, "--title", "The Film", "--year", "1999", "--genre", "Drama"}, env.configPath)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	requireContains(t, out, "Saved metadata")

	data, err := os.ReadFile(sidecarPath)
	if err != nil {
		t.Fatalf("expected sidecar: %v", err)
	}
	requireContains(t, string(data), `"title": "The Film"`)
	requireContains(t, string(data), `"production_year": 1999`)

	if _, _, err := runCLI(t, []string{"save", path, "--overview", "Plot."}, env.configPath); err != nil {
		t.Fatalf("second save: %v", err)
	}
	data, err = os.ReadFile(sidecarPath)
	if err != nil {
		t.Fatalf("read sidecar: %v", err)
	}
	requireContains(t, string(data), `"title": "The Film"`)
	requireContains(t, string(data), `"overview": "Plot."`)
}

func TestSaveSkipsDisabledSaver(t *testing.T) {
	env := setupCLITestEnv(t, `[[metadata_options]]
item_type = "Movie"
disabled_metadata_savers = ["curator sidecar"]
`)
	path := env.moviePath(t, "Film")

	if _, _, err := runCLI(t, []string{"save", path, "--title", "Ignored"}, env.configPath); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(path), "Film.curator.json")); !os.IsNotExist(err) {
		t.Fatalf("expected no sidecar, stat err=%v", err)
	}
}

func TestSaveRejectsUnknownKind(t *testing.T) {
	env := setupCLITestEnv(t, "")
	path := env.moviePath(t, "Film")
	if _, _, err := runCLI(t, []string{"save", path, "--kind", "sideways"}, env.configPath); err == nil {
		t.Fatal("expected unknown update kind to fail")
	}
}

func TestFetchImageStoresIndexedBackdrop(t *testing.T) {
	server := newArtServer(t)
	env := setupCLITestEnv(t, "")
	path := env.moviePath(t, "Film")

	out, _, err := runCLI(t, []string{
		"fetch-image", path,
		"--url", server.URL + "/art/extra.jpg",
		"--image-type", "backdrop",
		"--index", "2",
	}, env.configPath)
	if err != nil {
		t.Fatalf("fetch-image: %v", err)
	}
	requireContains(t, out, "Saved Backdrop image")

	data, err := os.ReadFile(filepath.Join(filepath.Dir(path), "backdrop2.jpg"))
	if err != nil {
		t.Fatalf("expected backdrop2.jpg: %v", err)
	}
	if string(data) != "jpeg:extra.jpg" {
		t.Fatalf("unexpected content %q", data)
	}

	if _, _, err := runCLI(t, []string{"fetch-image", path, "--image-type", "backdrop"}, env.configPath); err == nil {
		t.Fatal("expected missing --url to fail")
	}
}

func TestLogsShowsEngineOutput(t *testing.T) {
	env := setupCLITestEnv(t, "")
	path := env.moviePath(t, "Film")

	if _, _, err := runCLI(t, []string{"--log-level", "debug", "save", path, "--title", "Logged"}, env.configPath); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, _, err := runCLI(t, []string{"logs", "--lines", "200"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "saving metadata")
}
