package ui

// problemDescription is the story shown above the selector.
const problemDescription = `"So, this is the blog platform I mentioned in the README... ` +
	`Users are complaining that loading posts is super slow. Every. Single. Time. ` +
	`I tried loading the same post twice and it takes forever both times. Like, why? It's the same post! ` +
	`There's definitely something weird going on in the backend. But I just found a really comfortable spot in the sun, so... ` +
	`could you load some posts and see what's happening? Thanks!"`
