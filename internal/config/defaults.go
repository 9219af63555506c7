package config

import "path/filepath"

// DefaultPlan returns the conventional layout of the compiler source tree:
// three collections under src/, mirrored into tests/reflected/, one
// initializer file excluded from compilation in each.
func DefaultPlan() *Plan {
	src := "src"
	out := filepath.Join("tests", "reflected")

	return &Plan{
		Compiler: Compiler{
			Interpreter: "python3",
			Entry:       filepath.Join(src, "Nuitka.py"),
			Executable:  "Nuitka.exe",
		},
		SourceExt:      ".py",
		ArtifactSuffix: ".c++",
		SearchPathVar:  "PYTHONPATH",
		SourceRoot:     src,
		OutputRoot:     out,
		ScratchDir:     filepath.Join("/tmp", "reflectcheck"),
		Collections:    DefaultCollections(src, out),
	}
}

// DefaultCollections returns the conventional collection trio anchored at the
// given source and output roots.
func DefaultCollections(src string, out string) []Collection {
	return []Collection{
		{
			Name:    "toplevel",
			Dir:     src,
			Output:  out,
			Exclude: "__init__.py",
		},
		{
			Name:    "nodes",
			Dir:     filepath.Join(src, "nodes"),
			Output:  filepath.Join(out, "nodes"),
			Exclude: "__init__.py",
		},
		{
			Name:    "templates",
			Dir:     filepath.Join(src, "templates"),
			Output:  filepath.Join(out, "templates"),
			Exclude: "__init__.py",
		},
	}
}
