package manifest

// CargoSourcesFile is the generated cargo sources list referenced from the
// app module when native dependencies are present.
const CargoSourcesFile = "cargo-sources.json"

// Patch extends the sources of the module named appModule with the resolved
// foreign dependency sources, followed by a reference to the cargo sources
// file when hasCargo is set. All other modules are left untouched.
func Patch(m *Manifest, appModule string, sources []Source, hasCargo bool) error {
	mod, err := m.Module(appModule)
	if err != nil {
		return err
	}

	if len(sources) > 0 {
		if err := mod.AppendSources(sources...); err != nil {
			return err
		}
	}

	if hasCargo {
		return mod.AppendSources(FileRef(CargoSourcesFile))
	}

	return nil
}
