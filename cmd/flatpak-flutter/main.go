// flatpak-flutter converts the manifest of a Flutter app into one that builds
// offline inside the Flatpak sandbox.
package main

import "github.com/theappgineer/flatpak-flutter/cmd/flatpak-flutter/cmd"

func main() {
	cmd.Execute()
}
