package book

// Genre 图书类型(枚举,以字符串形式存储)
type Genre string

const (
	GenreFiction        Genre = "FICTION"
	GenreNonFiction     Genre = "NON_FICTION"
	GenreScienceFiction Genre = "SCIENCE_FICTION"
	GenreFantasy        Genre = "FANTASY"
	GenreMystery        Genre = "MYSTERY"
	GenreThriller       Genre = "THRILLER"
	GenreRomance        Genre = "ROMANCE"
	GenreWestern        Genre = "WESTERN"
	GenreHorror         Genre = "HORROR"
	GenreBiography      Genre = "BIOGRAPHY"
	GenreHistory        Genre = "HISTORY"
	GenreScience        Genre = "SCIENCE"
	GenrePoetry         Genre = "POETRY"
	GenreChildren       Genre = "CHILDREN"
	GenreYoungAdult     Genre = "YOUNG_ADULT"
	GenreSelfHelp       Genre = "SELF_HELP"
	GenreBusiness       Genre = "BUSINESS"
	GenreTravel         Genre = "TRAVEL"
	GenreCooking        Genre = "COOKING"
	GenreArt            Genre = "ART"
	GenreEducation      Genre = "EDUCATION"
	GenreReference      Genre = "REFERENCE"
	GenreTechnology     Genre = "TECHNOLOGY"
	GenreOther          Genre = "OTHER"
)

// genres 全部合法取值(顺序即文档中的展示顺序)
var genres = []Genre{
	GenreFiction, GenreNonFiction, GenreScienceFiction, GenreFantasy,
	GenreMystery, GenreThriller, GenreRomance, GenreWestern,
	GenreHorror, GenreBiography, GenreHistory, GenreScience,
	GenrePoetry, GenreChildren, GenreYoungAdult, GenreSelfHelp,
	GenreBusiness, GenreTravel, GenreCooking, GenreArt,
	GenreEducation, GenreReference, GenreTechnology, GenreOther,
}

// Genres 返回全部合法类型的副本
func Genres() []Genre {
	out := make([]Genre, len(genres))
	copy(out, genres)
	return out
}

// IsValid 判断是否为合法类型(大小写敏感,精确匹配)
func (g Genre) IsValid() bool {
	for _, v := range genres {
		if v == g {
			return true
		}
	}
	return false
}

func (g Genre) String() string {
	return string(g)
}

// ParseGenre 解析类型字符串,非法值返回ErrInvalidGenre
func ParseGenre(s string) (Genre, error) {
	g := Genre(s)
	if !g.IsValid() {
		return "", invalidGenre(s)
	}
	return g, nil
}
