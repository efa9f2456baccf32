package flags

const Project = `project`
const Verbose = `verbose`
const Quiet = `quiet`
const Config = `config`
const DryRun = `dryrun`
const Yes = `yes`
const Extension = `extension`
const Directory = `directory`
const Recursive = `recursive`
const Regex = `regex`
const Not = `not`
const Target = `target`
const FilesOnly = `files-only`
const Level = `level`
const From = `from`
const To = `to`
const Path = `path`
const Name = `name`

// configuration keys, also readable as VSPROJM_<KEY> environment variables
const ProjectKey = `project`
const DefaultFilterKey = `default_filter`
const IgnoreKey = `ignore`
const VerboseKey = `verbose`
const QuietKey = `quiet`
