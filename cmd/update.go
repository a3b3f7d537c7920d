package cmd

import (
	"bufio"
	"os"
	"strings"

	"github.com/blang/semver"
	"github.com/l3uddz/iconkit/build"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
	"github.com/spf13/cobra"
)

const releaseRepo = "l3uddz/iconkit"

var (
	flagYes bool
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update to latest release",
	Long:  `This command can be used to self-update to the latest release.`,

	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		// parse current version
		v, err := semver.ParseTolerant(build.Version)
		if err != nil {
			log.WithError(err).Fatal("Failed parsing current build version")
		}

		// detect latest version
		log.Info("Checking for the latest version...")
		latest, found, err := selfupdate.DetectLatest(releaseRepo)
		if err != nil {
			log.WithError(err).Fatal("Failed determining latest available version")
		}

		// check version
		if !found || latest.Version.LTE(v) {
			log.Infof("Already using the latest version: %v", build.Version)
			return
		}

		// ask update
		if !flagYes {
			log.Infof("Do you want to update to the latest version: %v? (y/n):", latest.Version)
			input, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				log.WithError(err).Fatal("Failed reading input")
			}

			if strings.ToLower(strings.TrimSpace(input)) != "y" {
				return
			}
		}

		// get existing executable path
		exe, err := os.Executable()
		if err != nil {
			log.WithError(err).Fatal("Failed locating current executable path")
		}

		if err := selfupdate.UpdateTo(latest.AssetURL, exe); err != nil {
			log.WithError(err).Fatal("Failed updating existing binary to latest release")
		}

		log.Infof("Updated to latest version: %v", latest.Version)
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Update without asking")
}
