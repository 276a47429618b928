package frontend_domain

import "github.com/bacilogs/bacilogs/shared/domain"

type Blog struct {
	Category domain.Category
	Name     string
	Author   string
}

var Blogs = []Blog{
	{Category: domain.Willow, Name: "Memorial of a Willow Tree", Author: "Arül"},
	{Category: domain.Wishes, Name: "Eyes Hiding Secret Wishes", Author: "Gizemeh"},
}

func BlogFor(category domain.Category) (Blog, bool) {
	for _, b := range Blogs {
		if b.Category == category {
			return b, true
		}
	}
	return Blog{}, false
}
