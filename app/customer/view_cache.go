package customer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// ViewCache loads table view definitions from YAML files and serves them to
// the query engine and API layer. A built-in customers view is registered
// when no file overrides it, so the service works with an empty views dir.
type ViewCache struct {
	viewsDir string
	cache    map[string]*View
	mu       sync.RWMutex
}

func NewViewCache(viewsDir string) *ViewCache {
	return &ViewCache{
		viewsDir: viewsDir,
		cache:    make(map[string]*View),
	}
}

func (vc *ViewCache) Run() error {
	if _, err := os.Stat(vc.viewsDir); !os.IsNotExist(err) {
		files, err := filepath.Glob(filepath.Join(vc.viewsDir, "*.yml"))
		if err != nil {
			return fmt.Errorf("failed to find YML files: %w", err)
		}

		for _, file := range files {
			// Derive view name from filename (remove .yml extension)
			fileName := filepath.Base(file)
			viewName := fileName[:len(fileName)-4]

			view, err := vc.LoadView(viewName)
			if err != nil {
				return fmt.Errorf("error loading %s: %w", file, err)
			}

			slog.Debug("View loaded", "view", viewName, "columns", len(view.Columns), "default_page_size", view.Settings.DefaultPageSize)
		}
	}

	vc.mu.Lock()
	defer vc.mu.Unlock()
	if _, ok := vc.cache["customers"]; !ok {
		vc.cache["customers"] = DefaultView()
		slog.Debug("Registered built-in customers view")
	}

	return nil
}

func (vc *ViewCache) LoadView(viewName string) (*View, error) {
	viewFile := vc.getViewFilePath(viewName)
	view, err := vc.parseView(viewFile)
	if err != nil {
		return nil, err
	}

	// Set view name from parameter
	view.Name = viewName

	if err := vc.validateView(view); err != nil {
		return nil, fmt.Errorf("invalid view %s: %w", viewFile, err)
	}

	// Store in cache
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.cache[view.Name] = view

	return view, nil
}

func (vc *ViewCache) GetView(viewName string) (*View, error) {
	vc.mu.RLock()
	defer vc.mu.RUnlock()

	view, ok := vc.cache[viewName]
	if !ok {
		return nil, fmt.Errorf("view with name '%s' not found", viewName)
	}
	return view, nil
}

func (vc *ViewCache) GetViews() map[string]*View {
	vc.mu.RLock()
	defer vc.mu.RUnlock()

	viewsCopy := make(map[string]*View, len(vc.cache))
	for k, v := range vc.cache {
		viewsCopy[k] = v
	}
	return viewsCopy
}

func (vc *ViewCache) GetViewCount() int {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return len(vc.cache)
}

func (vc *ViewCache) parseView(viewFile string) (*View, error) {
	data, err := os.ReadFile(viewFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var view View
	if err := yaml.Unmarshal(data, &view); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(view.Settings.PageSizes) == 0 {
		view.Settings.PageSizes = []int{10, 20, 30, 40, 50}
	}
	if view.Settings.DefaultPageSize == 0 {
		view.Settings.DefaultPageSize = view.Settings.PageSizes[0]
	}

	return &view, nil
}

func (vc *ViewCache) validateView(view *View) error {
	if view == nil {
		return fmt.Errorf("view is nil")
	}

	if len(view.Columns) == 0 {
		return fmt.Errorf("view must define at least one column")
	}

	seen := make(map[string]bool, len(view.Columns))
	for i, col := range view.Columns {
		if col.Name == "" {
			return fmt.Errorf("column at index %d has no name", i)
		}
		if seen[col.Name] {
			return fmt.Errorf("duplicate column name: %s", col.Name)
		}
		seen[col.Name] = true

		// Filterable column headers open the filter dropdown, so they
		// cannot double as sort toggles.
		if col.Filterable && col.Sortable {
			return fmt.Errorf("column %s cannot be both filterable and sortable", col.Name)
		}
	}

	for _, size := range view.Settings.PageSizes {
		if size <= 0 {
			return fmt.Errorf("page sizes must be positive, got %d", size)
		}
	}

	if !view.IsPageSizeAllowed(view.Settings.DefaultPageSize) {
		return fmt.Errorf("default page size %d is not in the page size options", view.Settings.DefaultPageSize)
	}

	return nil
}

func (vc *ViewCache) getViewFilePath(viewName string) string {
	return filepath.Join(vc.viewsDir, viewName+".yml")
}
