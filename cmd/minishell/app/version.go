package app

import (
	"fmt"

	"github.com/phillarmonic/figlet/figletlib"
)

// Domain: Version Display
// Grounded on cmd/drun/app/version.go's figlet banner.

// ShowVersion prints a colored banner followed by the version string.
func ShowVersion(version string) error {
	loader := figletlib.NewEmbededLoader()
	font, err := loader.GetFontByName("standard")
	if err != nil {
		return err
	}

	startColor, _ := figletlib.ParseColor("#FFB020")
	endColor, _ := figletlib.ParseColor("#FF4D6D")
	gradientConfig := figletlib.ColorConfig{
		Mode:       figletlib.ColorModeGradient,
		StartColor: startColor,
		EndColor:   endColor,
	}

	fmt.Println()
	figletlib.PrintColoredMsg("minishell", font, 80, font.Settings(), "left", gradientConfig)
	fmt.Println()
	fmt.Printf("Version %s\n", version)
	return nil
}
