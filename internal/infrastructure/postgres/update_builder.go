package postgres

import (
	"strconv"
	"strings"

	"github.com/oksasatya/secure-users-api/internal/domain/repository"
)

// userColumns maps every whitelisted field to its column. Column names in generated
// SQL only ever come from this table.
var userColumns = map[repository.Field]string{
	repository.FieldName:    "name",
	repository.FieldEmail:   "email",
	repository.FieldPhone:   "phone",
	repository.FieldAddress: "address",
	repository.FieldCity:    "city",
	repository.FieldCountry: "country",
}

// buildPatchQuery renders an UPDATE touching only the supplied whitelisted fields plus
// updated_at. Placeholders are numbered in whitelist order; the id filter is always last.
func buildPatchQuery(id int64, changes repository.Changes) (string, []any, error) {
	sets := make([]string, 0, len(repository.UpdatableFields)+1)
	args := make([]any, 0, len(repository.UpdatableFields)+1)

	for _, f := range repository.UpdatableFields {
		v, ok := changes[f]
		if !ok {
			continue
		}
		args = append(args, v)
		sets = append(sets, userColumns[f]+" = $"+strconv.Itoa(len(args)))
	}
	if len(sets) == 0 {
		return "", nil, repository.ErrNoChanges
	}

	sets = append(sets, "updated_at = "+touchUpdatedAt)
	args = append(args, id)

	var b strings.Builder
	b.WriteString("UPDATE users SET ")
	b.WriteString(strings.Join(sets, ", "))
	b.WriteString(" WHERE id = $")
	b.WriteString(strconv.Itoa(len(args)))
	b.WriteString(" RETURNING " + userSelectColumns)
	return b.String(), args, nil
}
