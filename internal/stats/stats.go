// Package stats computes aggregate statistics over a list of blogs.
//
// Every function accepts an empty (or nil) list. Results that describe a
// single blog or author use pointer fields so that an empty input yields a
// record whose fields are all absent.
package stats

import "bloglist/internal/models"

// Favorite is the most liked blog.
type Favorite struct {
	Title  *string `json:"title,omitempty"`
	Author *string `json:"author,omitempty"`
	Likes  *int    `json:"likes,omitempty"`
}

// AuthorBlogs is the author with the most blogs.
type AuthorBlogs struct {
	Author *string `json:"author,omitempty"`
	Blogs  *int    `json:"blogs,omitempty"`
}

// AuthorLikes is the author whose blogs have the most likes in total.
type AuthorLikes struct {
	Author *string `json:"author,omitempty"`
	Likes  *int    `json:"likes,omitempty"`
}

// Summary bundles all statistics for one list of blogs.
type Summary struct {
	TotalLikes   int         `json:"total_likes"`
	FavoriteBlog Favorite    `json:"favorite_blog"`
	MostBlogs    AuthorBlogs `json:"most_blogs"`
	MostLikes    AuthorLikes `json:"most_likes"`
}

// Summarize computes every statistic over blogs.
func Summarize(blogs []models.Blog) Summary {
	return Summary{
		TotalLikes:   TotalLikes(blogs),
		FavoriteBlog: FavoriteBlog(blogs),
		MostBlogs:    MostBlogs(blogs),
		MostLikes:    MostLikes(blogs),
	}
}

// TotalLikes sums the likes of all blogs.
func TotalLikes(blogs []models.Blog) int {
	total := 0
	for _, b := range blogs {
		total += b.Likes
	}
	return total
}

// FavoriteBlog returns the blog with the most likes. Ties go to the blog that
// comes first.
func FavoriteBlog(blogs []models.Blog) Favorite {
	if len(blogs) == 0 {
		return Favorite{}
	}
	best := 0
	for i := 1; i < len(blogs); i++ {
		if blogs[i].Likes > blogs[best].Likes {
			best = i
		}
	}
	fav := blogs[best]
	return Favorite{Title: ref(fav.Title), Author: ref(fav.Author), Likes: ref(fav.Likes)}
}

// MostBlogs returns the author with the most blogs.
func MostBlogs(blogs []models.Blog) AuthorBlogs {
	author, count, ok := top(blogs, func(models.Blog) int { return 1 })
	if !ok {
		return AuthorBlogs{}
	}
	return AuthorBlogs{Author: ref(author), Blogs: ref(count)}
}

// MostLikes returns the author whose blogs collected the most likes.
func MostLikes(blogs []models.Blog) AuthorLikes {
	author, likes, ok := top(blogs, func(b models.Blog) int { return b.Likes })
	if !ok {
		return AuthorLikes{}
	}
	return AuthorLikes{Author: ref(author), Likes: ref(likes)}
}

// top groups blogs by author, summing weight per blog, and returns the author
// with the highest total. Authors are compared in order of first appearance;
// the first one to reach the maximum wins.
func top(blogs []models.Blog, weight func(models.Blog) int) (string, int, bool) {
	if len(blogs) == 0 {
		return "", 0, false
	}
	totals := make(map[string]int)
	var order []string
	for _, b := range blogs {
		if _, seen := totals[b.Author]; !seen {
			order = append(order, b.Author)
		}
		totals[b.Author] += weight(b)
	}

	best := order[0]
	for _, author := range order[1:] {
		if totals[author] > totals[best] {
			best = author
		}
	}
	return best, totals[best], true
}

func ref[T any](v T) *T { return &v }
