// Package wrapper runs an external command behind an animation.
//
// Subcommands with a concurrent profile start in the background while a
// spinner races them for at most the profile's timeout. When the spinner
// loses, the user is told the command is still running and the wrapper
// keeps waiting. A successful command is celebrated with a library clip
// or one of the profile's effects. Everything else gets a short spinner
// up front and runs in the foreground.
//
// The command's exit code is always passed through.
package wrapper
