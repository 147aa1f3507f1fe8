package sqlinline

const QListRoles = `--sql 0b8286fa-d386-42f1-95c2-37d633b10b93
select id, name
from roles
order by id;
`
