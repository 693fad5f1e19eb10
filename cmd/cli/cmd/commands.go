package main

// setupCommands initializes all commands and their relationships
func setupCommands() {
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(controlsCmd)
	rootCmd.AddCommand(poamCmd)
	rootCmd.AddCommand(evidenceCmd)
	rootCmd.AddCommand(boundaryCmd)
	rootCmd.AddCommand(frameworksCmd)

	rootCmd.AddCommand(navCmd)
	rootCmd.AddCommand(interactiveCmd)
	rootCmd.AddCommand(versionCmd)
}
