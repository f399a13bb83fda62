// Command jsxextract extracts a JSX selection into a new React component.
package main

func main() {
	Execute()
}
