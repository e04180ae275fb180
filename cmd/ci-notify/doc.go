// Command ci-notify posts a localized CI run summary to a Discord or Slack
// incoming webhook. It is meant to run as a step in a GitHub Actions job.
package main
