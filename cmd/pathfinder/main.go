// Command pathfinder is a CLI front end for the engine: it can run a single
// path search from the command line ("find"), repeat one to profile search
// performance ("bench"), or expose a live debug websocket of the search
// frontier ("serve").
package main

func main() {
	Execute()
}
