package backend

const tratem = `
import json

import numpy as np
import xgboost as xgb

################################################################################

DIRECTORY = "{{ .Dir }}"

################################################################################

def load_params(path):
  with open(path) as f:
    p = json.load(f)

  n = p.pop("nround")
  s = p.pop("silent")

  p["verbosity"] = 0 if s else 1

  return p, n

################################################################################

par, nround = load_params(DIRECTORY + "/par.json")

fea = np.load(DIRECTORY + "/fea.npy")
lab = np.load(DIRECTORY + "/lab.npy")
{{- if .Wei }}
wei = np.load(DIRECTORY + "/wei.npy")
{{- else }}
wei = None
{{- end }}

tra_mat = xgb.DMatrix(fea, label=lab, weight=wei, missing=np.nan)

################################################################################

booster = xgb.train(par, tra_mat, num_boost_round=nround)
booster.save_model(DIRECTORY + "/mod.ubj")

################################################################################

imp = booster.get_score(importance_type="weight")

with open(DIRECTORY + "/imp.json", 'w') as the_file:
    the_file.write(json.dumps([[k, int(v)] for k, v in imp.items()]) + '\n')
`

const pretem = `
import numpy as np
import xgboost as xgb

################################################################################

booster = xgb.Booster()
booster.load_model("{{ .Dir }}/mod.ubj")

################################################################################

fea = np.load("{{ .Inp }}")
pre = booster.predict(xgb.DMatrix(fea, missing=np.nan))

################################################################################

np.save("{{ .Out }}", pre.reshape(pre.shape[0], -1).astype(np.float64))
`
